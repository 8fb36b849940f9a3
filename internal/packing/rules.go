package packing

import (
	"sort"
	"strings"

	"github.com/lox/luggify/internal/models"
)

// ItemSet is an accumulating set of item keys. Rules only ever add keys, so
// evaluation order cannot change the final contents.
type ItemSet map[string]struct{}

func (s ItemSet) Add(keys ...string) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

func (s ItemSet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the set contents sorted, for deterministic iteration.
func (s ItemSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Countries whose residents of the home market typically need a visa.
// The ISO alpha-2 list from the last catalogue revision is canonical; an
// earlier shorter name-based list existed and is retired.
var visaCountries = isoSet(
	// Schengen
	"FR", "DE", "IT", "ES", "GR", "FI", "SE", "NO", "DK",
	"NL", "BE", "AT", "CH", "CZ", "PL", "HU", "PT",
	"SK", "SI", "EE", "LV", "LT", "IS", "LU", "MT",
	"GB",
	"US", "CA",
	"JP", "CN", "IN", "VN", "KR", "SG", "MY", "PH", "ID",
	"IL", "AE", "QA", "SA", "KW", "OM", "BH",
	"EG", "MA", "TN", "DZ", "ZA",
	"AU", "NZ",
	"MX", "BR", "AR", "CL", "CO", "PE", "CU", "DO",
	"TR",
)

// Countries with power sockets that need a plug adapter.
var adapterCountries = isoSet("US", "GB", "AU", "JP", "CN", "CH")

// Typical swim destinations; packs a swimsuit even when no condition label
// hints at it.
var beachCountries = isoSet("TH", "ES", "GR", "IT", "TR", "EG")

func isoSet(codes ...string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// Condition-label tokens per language. Labels are matched case-insensitively
// by substring, the same way categories match item labels.
var (
	rainTokens     = map[string][]string{"en": {"rain", "drizzle", "shower"}, "ru": {"дождь", "ливень", "морось"}}
	swimTokens     = map[string][]string{"en": {"swim"}, "ru": {"купание"}}
	mountainTokens = map[string][]string{"en": {"mountain"}, "ru": {"гора", "горы"}}
)

// RuleInput bundles everything a rule may look at.
type RuleInput struct {
	Trip     models.TripContext
	Location models.Location
	Summary  models.ClimateSummary
}

type rule struct {
	name  string
	apply func(in RuleInput, set ItemSet)
}

// Engine evaluates the fixed rule list. Rules never remove or conflict, so
// the result is a pure union and evaluating twice yields the same set.
type Engine struct {
	rules []rule
}

func NewEngine() *Engine {
	return &Engine{rules: packingRules}
}

// Evaluate runs every rule against the inputs and returns the accumulated
// item key set. It never fails: an empty summary simply means the
// climate-driven rules see the temperate defaults.
func (e *Engine) Evaluate(trip models.TripContext, loc models.Location, summary models.ClimateSummary) ItemSet {
	in := RuleInput{Trip: trip, Location: loc, Summary: summary}
	set := make(ItemSet)
	for _, r := range e.rules {
		r.apply(in, set)
	}
	return set
}

func hasToken(conditions []string, tokens []string) bool {
	for _, c := range conditions {
		lower := strings.ToLower(c)
		for _, t := range tokens {
			if strings.Contains(lower, t) {
				return true
			}
		}
	}
	return false
}

func langTokens(table map[string][]string, lang string) []string {
	if tokens, ok := table[lang]; ok {
		return tokens
	}
	return table["en"]
}

var packingRules = []rule{
	{
		// Mutually exclusive temperature bands. Boundaries are part of the
		// output contract: <0, <10 on the minimum, >20 on the maximum.
		name: "clothing by temperature band",
		apply: func(in RuleInput, set ItemSet) {
			switch {
			case in.Summary.MinTemp < 0:
				set.Add("jacket_warm", "hat", "scarf", "gloves", "thermo", "boots_winter", "socks_warm")
			case in.Summary.MinTemp < 10:
				set.Add("jacket_light", "sweater", "jeans", "sneakers")
			case in.Summary.MaxTemp > 20:
				set.Add("tshirt", "shorts", "cap", "sunglasses", "shoes_light")
			default:
				set.Add("tshirt", "jeans", "sneakers")
			}
		},
	},
	{
		name: "precipitation",
		apply: func(in RuleInput, set ItemSet) {
			if hasToken(in.Summary.Conditions, langTokens(rainTokens, in.Trip.Language)) {
				set.Add("raincoat", "shoes_waterproof")
			}
		},
	},
	{
		name: "heat",
		apply: func(in RuleInput, set ItemSet) {
			if in.Summary.MaxTemp > 22 {
				set.Add("sunglasses", "cap")
			}
			if in.Summary.MaxTemp > 20 {
				set.Add("water_bottle")
			}
		},
	},
	{
		name: "humidity",
		apply: func(in RuleInput, set ItemSet) {
			if in.Summary.HighHumidity {
				set.Add("styling")
			}
		},
	},
	{
		name: "uv",
		apply: func(in RuleInput, set ItemSet) {
			if in.Summary.HighUV {
				set.Add("sunscreen_50", "hat", "sunglasses")
			}
		},
	},
	{
		name: "wind",
		apply: func(in RuleInput, set ItemSet) {
			if in.Summary.StrongWind {
				set.Add("windbreaker", "chapstick", "scarf_buff")
			}
		},
	},
	{
		name: "swim eligibility",
		apply: func(in RuleInput, set ItemSet) {
			if hasToken(in.Summary.Conditions, langTokens(swimTokens, in.Trip.Language)) ||
				beachCountries[in.Location.CountryCode] {
				set.Add("swimsuit")
			}
		},
	},
	{
		name: "mountain eligibility",
		apply: func(in RuleInput, set ItemSet) {
			if hasToken(in.Summary.Conditions, langTokens(mountainTokens, in.Trip.Language)) {
				set.Add("trekking_shoes", "first_aid_kit", "thermos", "map_compass")
			}
		},
	},
	{
		name: "health",
		apply: func(in RuleInput, set ItemSet) {
			if in.Trip.HasAllergies {
				set.Add("antihistamine", "allergies_list")
			}
			if in.Trip.HasChronicDiseases {
				set.Add("meds_personal", "meds_regular", "med_report")
			}
		},
	},
	{
		name: "gender",
		apply: func(in RuleInput, set ItemSet) {
			switch in.Trip.Gender {
			case models.GenderFemale:
				set.Add("makeup", "makeup_remover", "hygiene_fem")
				if in.Summary.AvgTemp != nil && *in.Summary.AvgTemp > 15 {
					set.Add("dress")
				}
			case models.GenderMale:
				set.Add("shaving_kit")
			}
		},
	},
	{
		name: "transport",
		apply: func(in RuleInput, set ItemSet) {
			switch in.Trip.Transport {
			case models.TransportPlane:
				set.Add("neck_pillow", "earplugs", "powerbank_hand", "liquids_bag")
			case models.TransportTrain:
				set.Add("slippers_train", "clothes_train", "mug", "playlist")
			case models.TransportCar:
				set.Add("car_charger", "sunglasses_driver", "snacks_water")
			case models.TransportBus:
				set.Add("neck_pillow", "earplugs", "snacks_water")
			}
		},
	},
	{
		// vacation adds nothing beyond the universal baseline.
		name: "trip type",
		apply: func(in RuleInput, set ItemSet) {
			switch in.Trip.TripType {
			case models.TripBusiness:
				set.Add("suit", "shirts", "shoes_formal", "business_cards", "laptop")
			case models.TripActive:
				set.Add("sportswear", "sneakers", "backpack_walk", "first_aid_kit")
			case models.TripBeach:
				set.Add("swimsuit", "sunscreen", "beach_towel", "flipflops", "pareo", "after_sun", "beach_bag")
			case models.TripWinter:
				set.Add("ski_suit", "goggles", "fleece", "thermo", "mittens", "wind_cream")
			}
		},
	},
	{
		name: "pet",
		apply: func(in RuleInput, set ItemSet) {
			if in.Trip.TravelingWithPet {
				set.Add("vet_passport", "pet_food", "pet_bowl", "leash", "pet_pads", "pet_toy")
			}
		},
	},
	{
		name: "visa and adapter",
		apply: func(in RuleInput, set ItemSet) {
			if visaCountries[in.Location.CountryCode] {
				set.Add("visa")
			}
			if adapterCountries[in.Location.CountryCode] {
				set.Add("adapter")
			}
		},
	},
	{
		name: "driving abroad",
		apply: func(in RuleInput, set ItemSet) {
			if in.Location.CountryCode != "" && in.Location.CountryCode != "RU" {
				set.Add("license")
			}
		},
	},
}
