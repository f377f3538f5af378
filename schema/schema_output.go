package schema

// EnrichedFDRResult adds presentation data to an FDRResult.
type EnrichedFDRResult struct {
	Rank         int    `json:"rank"`
	AttackLabel  string `json:"attackLabel"`
	DefenceLabel string `json:"defenceLabel"`
	FDRResult
}

// EnrichedFixture adds presentation data to a ScheduleFixture.
type EnrichedFixture struct {
	ScheduleFixture
	AttackLabel  string `json:"attackLabel"`
	DefenceLabel string `json:"defenceLabel"`
	ColorClass   string `json:"colorClass"`
}

// EnrichedSchedule adds presentation data to a TeamSchedule.
type EnrichedSchedule struct {
	TeamID            int               `json:"teamId"`
	TeamName          string            `json:"teamName"`
	Fixtures          []EnrichedFixture `json:"fixtures"`
	AverageAttackFDR  float64           `json:"averageAttackFDR"`
	AverageDefenceFDR float64           `json:"averageDefenceFDR"`
	AttackFDRRank     int               `json:"attackFDRRank"`
	DefenceFDRRank    int               `json:"defenceFDRRank"`
	AttackLabel       string            `json:"attackLabel"`
	DefenceLabel      string            `json:"defenceLabel"`
}

// EnrichFDR adds list rank and labels to an ordered FDR list.
func EnrichFDR(results []FDRResult) []EnrichedFDRResult {
	output := make([]EnrichedFDRResult, len(results))
	for i, r := range results {
		output[i] = EnrichedFDRResult{
			Rank:         i + 1,
			AttackLabel:  FDRLabel(RoundFDR(r.Attack)),
			DefenceLabel: FDRLabel(RoundFDR(r.Defence)),
			FDRResult:    r,
		}
	}
	return output
}

// EnrichSchedules adds labels and color classes to team schedules.
func EnrichSchedules(schedules []TeamSchedule) []EnrichedSchedule {
	output := make([]EnrichedSchedule, len(schedules))
	for i, s := range schedules {
		fixtures := make([]EnrichedFixture, len(s.Fixtures))
		for j, f := range s.Fixtures {
			fixtures[j] = EnrichedFixture{
				ScheduleFixture: f,
				AttackLabel:     FDRLabel(f.OpponentAttackFDR),
				DefenceLabel:    FDRLabel(f.OpponentDefenceFDR),
				ColorClass:      FDRColorClass(f.OpponentAttackFDR),
			}
		}
		output[i] = EnrichedSchedule{
			TeamID:            s.TeamID,
			TeamName:          s.TeamName,
			Fixtures:          fixtures,
			AverageAttackFDR:  s.AverageAttackFDR,
			AverageDefenceFDR: s.AverageDefenceFDR,
			AttackFDRRank:     s.AttackFDRRank,
			DefenceFDRRank:    s.DefenceFDRRank,
			AttackLabel:       FDRLabel(RoundFDR(s.AverageAttackFDR)),
			DefenceLabel:      FDRLabel(RoundFDR(s.AverageDefenceFDR)),
		}
	}
	return output
}
