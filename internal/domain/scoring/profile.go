package scoring

import (
	"github.com/okian/fantaprice/internal/domain/model"
	"github.com/okian/fantaprice/internal/domain/normalize"
)

// RoleWeights holds one value per role. Unknown roles read the midfielder value.
type RoleWeights struct {
	Goalkeeper float64 `koanf:"goalkeeper"`
	Defender   float64 `koanf:"defender"`
	Midfielder float64 `koanf:"midfielder"`
	Forward    float64 `koanf:"forward"`
}

// Uniform returns RoleWeights with v for every role.
func Uniform(v float64) RoleWeights {
	return RoleWeights{Goalkeeper: v, Defender: v, Midfielder: v, Forward: v}
}

// For returns the value for role r.
func (w RoleWeights) For(r model.Role) float64 {
	switch r {
	case model.RoleGoalkeeper:
		return w.Goalkeeper
	case model.RoleDefender:
		return w.Defender
	case model.RoleForward:
		return w.Forward
	default:
		return w.Midfielder
	}
}

// Columns binds statistics to the source's column names. Empty means unavailable.
type Columns struct {
	Average          string   `koanf:"average"`
	Appearances      string   `koanf:"appearances"`
	StartShare       string   `koanf:"start_share"`
	Goals            string   `koanf:"goals"`
	Assists          string   `koanf:"assists"`
	ExpectedGoals    string   `koanf:"expected_goals"`
	ExpectedAssists  string   `koanf:"expected_assists"`
	YellowCards      string   `koanf:"yellow_cards"`
	RedCards         string   `koanf:"red_cards"`
	Index            string   `koanf:"index"`
	Tags             string   `koanf:"tags"`
	InjuryResistance string   `koanf:"injury_resistance"`
	Investment       string   `koanf:"investment"`
	Trend            string   `koanf:"trend"`
	Injured          string   `koanf:"injured"`
	Banned           string   `koanf:"banned"`
	NewSigning       string   `koanf:"new_signing"`
	Technical        []string `koanf:"technical"`
}

// Weights are the maximum contributions of each term, per role.
type Weights struct {
	Base             RoleWeights `koanf:"base"`
	Reliability      RoleWeights `koanf:"reliability"`
	Usage            RoleWeights `koanf:"usage"`
	Offense          RoleWeights `koanf:"offense"`
	Index            RoleWeights `koanf:"index"`
	Technical        RoleWeights `koanf:"technical"`
	Tags             RoleWeights `koanf:"tags"`
	InjuryResistance float64     `koanf:"injury_resistance"`
	Investment       float64     `koanf:"investment"`
	Trend            float64     `koanf:"trend"`
}

// RateTarget is a per-match target and the cap applied to rate/target.
type RateTarget struct {
	Target float64 `koanf:"target"`
	Cap    float64 `koanf:"cap"`
	Weight float64 `koanf:"weight"`
}

// OffenseTargets groups the four production rates.
type OffenseTargets struct {
	Goals           RateTarget `koanf:"goals"`
	ExpectedGoals   RateTarget `koanf:"expected_goals"`
	Assists         RateTarget `koanf:"assists"`
	ExpectedAssists RateTarget `koanf:"expected_assists"`
}

// Penalty configures the discipline and availability deduction.
type Penalty struct {
	YellowRateTarget float64 `koanf:"yellow_rate_target"`
	YellowPoints     float64 `koanf:"yellow_points"`
	RedPoints        float64 `koanf:"red_points"`
	InjuredPoints    float64 `koanf:"injured_points"`
	BannedPoints     float64 `koanf:"banned_points"`
	NewSigningPoints float64 `koanf:"new_signing_points"`
	Cap              float64 `koanf:"cap"`
	Fraction         float64 `koanf:"fraction"`
}

// Potential configures the presence-independent score.
type Potential struct {
	TagPoints      map[string]float64 `koanf:"tag_points"`
	TagWeight      float64            `koanf:"tag_weight"`
	ExpectedWeight float64            `koanf:"expected_weight"`
	Rescale        bool               `koanf:"rescale"`
}

// Profile is the full weight table of one source.
type Profile struct {
	Source  model.Source `koanf:"source"`
	Columns Columns      `koanf:"columns"`
	Weights Weights      `koanf:"weights"`

	AverageLow   float64 `koanf:"average_low"`
	AverageHigh  float64 `koanf:"average_high"`
	AverageScale float64 `koanf:"average_scale"`

	AppearanceSteps normalize.Steps `koanf:"appearance_steps"`
	StartSteps      normalize.Steps `koanf:"start_steps"`
	StartFallback   float64         `koanf:"start_fallback"`
	StartShare      float64         `koanf:"start_share"`

	// ForwardTargets apply to forwards, OtherTargets to every other role.
	ForwardTargets OffenseTargets `koanf:"forward_targets"`
	OtherTargets   OffenseTargets `koanf:"other_targets"`

	IndexOffset float64 `koanf:"index_offset"`
	IndexSpan   float64 `koanf:"index_span"`

	TagPoints map[string]float64 `koanf:"tag_points"`
	TagLow    float64            `koanf:"tag_low"`
	TagHigh   float64            `koanf:"tag_high"`
	TrendUp   string             `koanf:"trend_up"`

	Penalty    Penalty     `koanf:"penalty"`
	Potential  Potential   `koanf:"potential"`
	Multiplier RoleWeights `koanf:"multiplier"`
	Ceiling    RoleWeights `koanf:"ceiling"`
}

func appearanceSteps() normalize.Steps {
	return normalize.Steps{
		{Min: 30, Value: 1.0},
		{Min: 25, Value: 0.9},
		{Min: 20, Value: 0.75},
		{Min: 15, Value: 0.55},
		{Min: 10, Value: 0.35},
		{Min: 5, Value: 0.15},
		{Min: 1, Value: 0.05},
	}
}

func startSteps() normalize.Steps {
	return normalize.Steps{
		{Min: 0.85, Value: 1.0},
		{Min: 0.7, Value: 0.7},
		{Min: 0.5, Value: 0.4},
		{Min: 0.3, Value: 0.2},
	}
}

func forwardTargets() OffenseTargets {
	return OffenseTargets{
		Goals:           RateTarget{Target: 0.5, Cap: 2.0, Weight: 0.35},
		ExpectedGoals:   RateTarget{Target: 0.4, Cap: 1.8, Weight: 0.25},
		Assists:         RateTarget{Target: 0.25, Cap: 1.6, Weight: 0.2},
		ExpectedAssists: RateTarget{Target: 0.2, Cap: 1.5, Weight: 0.15},
	}
}

func otherTargets() OffenseTargets {
	return OffenseTargets{
		Goals:           RateTarget{Target: 0.8, Cap: 1, Weight: 0.35},
		ExpectedGoals:   RateTarget{Target: 0.6, Cap: 1, Weight: 0.25},
		Assists:         RateTarget{Target: 0.5, Cap: 1, Weight: 0.2},
		ExpectedAssists: RateTarget{Target: 0.4, Cap: 1, Weight: 0.15},
	}
}

func offenseWeights() RoleWeights {
	return RoleWeights{Goalkeeper: 0, Defender: 3, Midfielder: 20, Forward: 35}
}

// DefaultFpediaProfile returns the weight table for the FPEDIA export.
func DefaultFpediaProfile() Profile {
	return Profile{
		Source: model.SourceFpedia,
		Columns: Columns{
			Average:          "Fantamedia anno 2024-2025",
			Appearances:      "Presenze campionato corrente",
			Index:            "Punteggio",
			Tags:             "Skills",
			InjuryResistance: "Resistenza infortuni",
			Investment:       "Buon investimento",
			Trend:            "Trend",
			Injured:          "Infortunato",
			NewSigning:       "Nuovo acquisto",
		},
		Weights: Weights{
			Base:             Uniform(40),
			Reliability:      Uniform(30),
			Usage:            Uniform(15),
			Offense:          offenseWeights(),
			Index:            Uniform(8),
			Technical:        Uniform(0),
			Tags:             Uniform(3),
			InjuryResistance: 1,
			Investment:       0.5,
			Trend:            0.5,
		},
		AverageLow:      4.5,
		AverageHigh:     7.0,
		AverageScale:    10,
		AppearanceSteps: appearanceSteps(),
		StartSteps:      startSteps(),
		StartFallback:   0.05,
		StartShare:      0.4,
		ForwardTargets:  forwardTargets(),
		OtherTargets:    otherTargets(),
		IndexOffset:     30,
		IndexSpan:       70,
		TagPoints: map[string]float64{
			"Rigorista":   8,
			"Goleador":    6,
			"Titolare":    4,
			"Assistman":   3,
			"Piazzati":    2,
			"Fuoriclasse": 2,
			"Buona Media": 1,
			"Panchinaro":  -10,
			"Falloso":     -5,
		},
		TagLow:  -10,
		TagHigh: 10,
		TrendUp: "UP",
		Penalty: Penalty{
			YellowRateTarget: 0.4,
			YellowPoints:     2,
			RedPoints:        5,
			InjuredPoints:    5,
			BannedPoints:     3,
			NewSigningPoints: 1,
			Cap:              10,
			Fraction:         0.2,
		},
		Potential: Potential{
			TagPoints: map[string]float64{
				"Fuoriclasse":     1,
				"Titolare":        3,
				"Buona Media":     2,
				"Goleador":        4,
				"Assistman":       2,
				"Piazzati":        2,
				"Rigorista":       5,
				"Giovane talento": 2,
				"Panchinaro":      -4,
				"Falloso":         -2,
				"Outsider":        2,
			},
			TagWeight: 2,
		},
		Multiplier: RoleWeights{Goalkeeper: 0.8, Defender: 0.9, Midfielder: 1.0, Forward: 1.2},
		Ceiling:    RoleWeights{Goalkeeper: 100, Defender: 100, Midfielder: 100, Forward: 120},
	}
}

// DefaultFstatsProfile returns the weight table for the FSTATS export.
func DefaultFstatsProfile() Profile {
	return Profile{
		Source: model.SourceFstats,
		Columns: Columns{
			Average:         "fanta_avg",
			Appearances:     "presences",
			StartShare:      "perc_matchesStarted",
			Goals:           "goals",
			Assists:         "assists",
			ExpectedGoals:   "xgFromOpenPlays",
			ExpectedAssists: "xA",
			YellowCards:     "yellowCards",
			RedCards:        "redCards",
			Index:           "fantacalcioFantaindex",
			Injured:         "injured",
			Banned:          "banned",
			Technical: []string{
				"Shot_on_goal_Index",
				"Offensive_actions_Index",
				"Pass_forward_accuracy_Index",
				"Attacking_area_Index",
				"Pass_leading_chances_Index",
				"Dribbles_successful_Index",
			},
		},
		Weights: Weights{
			Base:        RoleWeights{Goalkeeper: 35, Defender: 35, Midfielder: 35, Forward: 25},
			Reliability: Uniform(25),
			Usage:       RoleWeights{Goalkeeper: 22, Defender: 20, Midfielder: 15, Forward: 10},
			Offense:     offenseWeights(),
			Index:       RoleWeights{Goalkeeper: 8, Defender: 8, Midfielder: 8, Forward: 5},
			Technical:   RoleWeights{Goalkeeper: 5, Defender: 5, Midfielder: 5, Forward: 8},
			Tags:        Uniform(0),
		},
		AverageLow:      4.5,
		AverageHigh:     7.5,
		AverageScale:    10,
		AppearanceSteps: appearanceSteps(),
		StartSteps:      startSteps(),
		StartFallback:   0.05,
		StartShare:      0.4,
		ForwardTargets:  forwardTargets(),
		OtherTargets:    otherTargets(),
		IndexOffset:     60,
		IndexSpan:       40,
		TagLow:          -10,
		TagHigh:         10,
		Penalty: Penalty{
			YellowRateTarget: 0.4,
			YellowPoints:     2,
			RedPoints:        5,
			InjuredPoints:    5,
			BannedPoints:     3,
			Cap:              10,
			Fraction:         0.2,
		},
		Potential: Potential{
			ExpectedWeight: 2,
			Rescale:        true,
		},
		Multiplier: RoleWeights{Goalkeeper: 0.8, Defender: 0.85, Midfielder: 1.0, Forward: 1.1},
		Ceiling:    RoleWeights{Goalkeeper: 100, Defender: 120, Midfielder: 150, Forward: 200},
	}
}
