package algo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/fdr/schema"
)

// matchKind is the outcome of comparing two team names.
type matchKind int

const (
	noMatch matchKind = iota
	exactMatch
	looseMatch
)

// matchTeamName compares a known name against a queried name.
// Exact means equal ignoring case; loose means either contains the other
// ignoring case, which tolerates variants like "Utrecht" and "FC Utrecht".
// Blank names never match.
func matchTeamName(known, query string) matchKind {
	k := strings.ToLower(strings.TrimSpace(known))
	q := strings.ToLower(strings.TrimSpace(query))
	if k == "" || q == "" {
		return noMatch
	}
	if k == q {
		return exactMatch
	}
	if strings.Contains(k, q) || strings.Contains(q, k) {
		return looseMatch
	}
	return noMatch
}

// TierMapping is an immutable five-bucket classification of team names,
// one partition for attack difficulty and one for defence difficulty.
type TierMapping struct {
	attack  schema.TierBuckets
	defence schema.TierBuckets
}

// NewTierMapping validates and copies the given partitions.
// Buckets must be within 1..5 and a name may appear once per partition.
func NewTierMapping(attack, defence schema.TierBuckets) (TierMapping, error) {
	if err := validateBuckets(schema.AttackTier, attack); err != nil {
		return TierMapping{}, err
	}
	if err := validateBuckets(schema.DefenceTier, defence); err != nil {
		return TierMapping{}, err
	}
	return TierMapping{attack: copyBuckets(attack), defence: copyBuckets(defence)}, nil
}

func validateBuckets(kind schema.TierKind, buckets schema.TierBuckets) error {
	seen := make(map[string]int)
	for tier, names := range buckets {
		if tier < schema.MinTier || tier > schema.MaxTier {
			return fmt.Errorf("%s tier %d is out of range %d-%d", kind, tier, schema.MinTier, schema.MaxTier)
		}
		for _, name := range names {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" {
				return fmt.Errorf("%s tier %d contains a blank team name", kind, tier)
			}
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("team %q appears in %s tiers %d and %d", name, kind, prev, tier)
			}
			seen[key] = tier
		}
	}
	return nil
}

func copyBuckets(src schema.TierBuckets) schema.TierBuckets {
	dst := make(schema.TierBuckets, schema.MaxTier)
	for tier := schema.MinTier; tier <= schema.MaxTier; tier++ {
		dst[tier] = slices.Clone(src[tier])
		if dst[tier] == nil {
			dst[tier] = []string{}
		}
	}
	return dst
}

// Buckets returns copies of the attack and defence partitions.
func (m TierMapping) Buckets() (attack, defence schema.TierBuckets) {
	return copyBuckets(m.attack), copyBuckets(m.defence)
}

// Table returns the mapping in its serializable form.
func (m TierMapping) Table() schema.TierTable {
	attack, defence := m.Buckets()
	return schema.TierTable{Attack: attack, Defence: defence}
}

// LookupTier returns the tier of a team in the given partition.
// Exact matches win over loose matches, lower tiers are searched first,
// and anything unmatched is medium difficulty.
func (m TierMapping) LookupTier(teamName string, kind schema.TierKind) int {
	buckets := m.attack
	if kind == schema.DefenceTier {
		buckets = m.defence
	}
	for _, want := range []matchKind{exactMatch, looseMatch} {
		for tier := schema.MinTier; tier <= schema.MaxTier; tier++ {
			for _, name := range buckets[tier] {
				if matchTeamName(name, teamName) == want {
					return tier
				}
			}
		}
	}
	return schema.DefaultTier
}

// DefaultTierMapping returns the curated Premier League classification.
// Attack tiers rate how hard a side is to score against; defence tiers
// rate how dangerous a side is going forward.
func DefaultTierMapping() TierMapping {
	m, err := NewTierMapping(
		schema.TierBuckets{
			1: {"Burnley", "Sunderland", "Wolves"},
			2: {"Leeds", "Man Utd", "Spurs", "West Ham"},
			3: {"Bournemouth", "Brentford", "Brighton", "Everton", "Fulham", "Nott'm Forest"},
			4: {"Aston Villa", "Chelsea", "Crystal Palace", "Newcastle"},
			5: {"Arsenal", "Liverpool", "Man City"},
		},
		schema.TierBuckets{
			1: {"Burnley", "Sunderland", "Wolves"},
			2: {"Everton", "Leeds", "Nott'm Forest", "West Ham"},
			3: {"Bournemouth", "Brentford", "Crystal Palace", "Fulham", "Man Utd"},
			4: {"Aston Villa", "Brighton", "Newcastle", "Spurs"},
			5: {"Arsenal", "Chelsea", "Liverpool", "Man City"},
		},
	)
	if err != nil {
		panic(err) // static table
	}
	return m
}
