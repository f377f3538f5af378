package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestError marks a malformed or out-of-range request parameter.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// gameweekQuery carries the parameters of a single gameweek rating.
type gameweekQuery struct {
	Gameweek int `query:"gameweek" validate:"gte=0"`
	Limit    int `query:"limit" validate:"gte=0,lte=100"`
}

// windowQuery carries the parameters shared by horizon ratings and schedules.
// Zero start means the next unfinished gameweek.
type windowQuery struct {
	Start   int    `query:"start" validate:"gte=0"`
	Horizon int    `query:"horizon" validate:"oneof=3 5 8 10"`
	Limit   int    `query:"limit" validate:"gte=0,lte=100"`
	Team    string `query:"team" validate:"omitempty,max=64"`
	RankBy  string `query:"rank_by" validate:"omitempty,oneof=attack defence"`
}

// fixturesQuery filters the fixture calendar. Zero gameweek returns every fixture.
type fixturesQuery struct {
	Gameweek int `query:"gameweek" validate:"gte=0"`
}

// tierLookupQuery asks for the tier of one team.
type tierLookupQuery struct {
	Team string `query:"team" validate:"required,max=64"`
	Type string `query:"type" validate:"oneof=attack defence"`
}

// newValidator reports field errors by their query parameter names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// check validates a decoded query struct and turns failures into request errors.
func (s *Server) check(q any) error {
	err := s.validate.Struct(q)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return badRequest("invalid parameters: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (received %v)", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s (received %v)", fe.Field(), fe.Param(), fe.Value())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s (received %v)", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// intParam reads an integer query parameter, returning def when absent.
func intParam(values url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be an integer (received %q)", key, raw)
	}
	return n, nil
}

// parseWindow decodes and validates window parameters, defaulting horizon and limit from the server config.
func (s *Server) parseWindow(r *http.Request) (windowQuery, error) {
	values := r.URL.Query()
	q := windowQuery{
		Team:   strings.TrimSpace(values.Get("team")),
		RankBy: strings.TrimSpace(values.Get("rank_by")),
	}
	var err error
	if q.Start, err = intParam(values, "start", s.cfg.StartGameweek); err != nil {
		return q, err
	}
	if q.Horizon, err = intParam(values, "horizon", s.cfg.Horizon); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(values, "limit", 0); err != nil {
		return q, err
	}
	return q, s.check(q)
}
