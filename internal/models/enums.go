package models

import (
	"strings"
	"unicode"
)

// Labeler is implemented by every enumerated type. Label returns the
// human-readable text shown to people, never the stored symbolic name.
// An unset value returns "".
type Labeler interface {
	Label() string
}

// labelFor resolves the display label of an enum value. Codes missing from
// the table are humanized so a symbolic name never leaks into reports.
func labelFor[T ~string](v T, labels map[T]string) string {
	if v == "" {
		return ""
	}
	if label, ok := labels[v]; ok {
		return label
	}
	return Humanize(string(v))
}

// Humanize turns a symbolic code such as "DOMESTIC_WORK" into "Domestic Work"
func Humanize(code string) string {
	words := strings.FieldsFunc(code, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Gender of the worker
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var genderLabels = map[Gender]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

func (g Gender) Label() string { return labelFor(g, genderLabels) }

// Occupation sector of the worker
type Occupation string

const (
	OccupationConstruction Occupation = "CONSTRUCTION"
	OccupationAgriculture  Occupation = "AGRICULTURE"
	OccupationDomesticWork Occupation = "DOMESTIC_WORK"
	OccupationFactory      Occupation = "FACTORY"
	OccupationFishing      Occupation = "FISHING"
	OccupationOther        Occupation = "OTHER"
)

var occupationLabels = map[Occupation]string{
	OccupationConstruction: "Construction",
	OccupationAgriculture:  "Agriculture",
	OccupationDomesticWork: "Domestic Work",
	OccupationFactory:      "Factory",
	OccupationFishing:      "Fishing",
	OccupationOther:        "Other",
}

func (o Occupation) Label() string { return labelFor(o, occupationLabels) }

// DietType of the worker
type DietType string

const (
	DietVeg        DietType = "VEG"
	DietNonVeg     DietType = "NON_VEG"
	DietEggetarian DietType = "EGGETARIAN"
	DietVegan      DietType = "VEGAN"
)

var dietTypeLabels = map[DietType]string{
	DietVeg:        "Vegetarian",
	DietNonVeg:     "Non-Vegetarian",
	DietEggetarian: "Eggetarian",
	DietVegan:      "Vegan",
}

func (d DietType) Label() string { return labelFor(d, dietTypeLabels) }

// Frequency of a habit (smoking, alcohol, junk food)
type Frequency string

const (
	FrequencyNever        Frequency = "NEVER"
	FrequencyOccasionally Frequency = "OCCASIONALLY"
	FrequencyWeekly       Frequency = "WEEKLY"
	FrequencyDaily        Frequency = "DAILY"
)

var frequencyLabels = map[Frequency]string{
	FrequencyNever:        "Never",
	FrequencyOccasionally: "Occasionally",
	FrequencyWeekly:       "Weekly",
	FrequencyDaily:        "Daily",
}

func (f Frequency) Label() string { return labelFor(f, frequencyLabels) }

// Level is a three-step rating used for physical strain and PPE usage
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

var levelLabels = map[Level]string{
	LevelLow:    "Low",
	LevelMedium: "Medium",
	LevelHigh:   "High",
}

func (l Level) Label() string { return labelFor(l, levelLabels) }

// PPEUsage records how consistently protective equipment is worn
type PPEUsage string

const (
	PPEAlways    PPEUsage = "ALWAYS"
	PPESometimes PPEUsage = "SOMETIMES"
	PPENever     PPEUsage = "NEVER"
	PPENotNeeded PPEUsage = "NOT_REQUIRED"
)

var ppeUsageLabels = map[PPEUsage]string{
	PPEAlways:    "Always",
	PPESometimes: "Sometimes",
	PPENever:     "Never",
	PPENotNeeded: "Not Required",
}

func (p PPEUsage) Label() string { return labelFor(p, ppeUsageLabels) }

// AccommodationType of the worker's housing
type AccommodationType string

const (
	AccommodationDormitory  AccommodationType = "SHARED_DORMITORY"
	AccommodationSiteHut    AccommodationType = "SITE_HUT"
	AccommodationRentedRoom AccommodationType = "RENTED_ROOM"
	AccommodationEmployer   AccommodationType = "EMPLOYER_PROVIDED"
	AccommodationOwnHouse   AccommodationType = "OWN_HOUSE"
	AccommodationTemporary  AccommodationType = "TEMPORARY_SHELTER"
)

var accommodationLabels = map[AccommodationType]string{
	AccommodationDormitory:  "Shared Dormitory",
	AccommodationSiteHut:    "Site Hut",
	AccommodationRentedRoom: "Rented Room",
	AccommodationEmployer:   "Employer-Provided Housing",
	AccommodationOwnHouse:   "Own House",
	AccommodationTemporary:  "Temporary Shelter",
}

func (a AccommodationType) Label() string { return labelFor(a, accommodationLabels) }

// Quality is a coarse rating used for sanitation
type Quality string

const (
	QualityGood Quality = "GOOD"
	QualityFair Quality = "FAIR"
	QualityPoor Quality = "POOR"
)

var qualityLabels = map[Quality]string{
	QualityGood: "Good",
	QualityFair: "Fair",
	QualityPoor: "Poor",
}

func (q Quality) Label() string { return labelFor(q, qualityLabels) }

// CheckupType distinguishes why a checkup took place
type CheckupType string

const (
	CheckupPreEmployment CheckupType = "PRE_EMPLOYMENT"
	CheckupPeriodic      CheckupType = "PERIODIC"
	CheckupFollowUp      CheckupType = "FOLLOW_UP"
	CheckupCamp          CheckupType = "HEALTH_CAMP"
	CheckupEmergency     CheckupType = "EMERGENCY"
)

var checkupTypeLabels = map[CheckupType]string{
	CheckupPreEmployment: "Pre-Employment",
	CheckupPeriodic:      "Periodic",
	CheckupFollowUp:      "Follow-up",
	CheckupCamp:          "Health Camp",
	CheckupEmergency:     "Emergency",
}

func (c CheckupType) Label() string { return labelFor(c, checkupTypeLabels) }

// HearingResult of an audiometry screening
type HearingResult string

const (
	HearingNormal   HearingResult = "NORMAL"
	HearingMild     HearingResult = "MILD_LOSS"
	HearingModerate HearingResult = "MODERATE_LOSS"
	HearingSevere   HearingResult = "SEVERE_LOSS"
)

var hearingLabels = map[HearingResult]string{
	HearingNormal:   "Normal",
	HearingMild:     "Mild Loss",
	HearingModerate: "Moderate Loss",
	HearingSevere:   "Severe Loss",
}

func (h HearingResult) Label() string { return labelFor(h, hearingLabels) }

// TestResult of a screening test for an infection
type TestResult string

const (
	TestPositive     TestResult = "POSITIVE"
	TestNegative     TestResult = "NEGATIVE"
	TestInconclusive TestResult = "INCONCLUSIVE"
	TestNotDone      TestResult = "NOT_DONE"
)

var testResultLabels = map[TestResult]string{
	TestPositive:     "Positive",
	TestNegative:     "Negative",
	TestInconclusive: "Inconclusive",
	TestNotDone:      "Not Done",
}

func (t TestResult) Label() string { return labelFor(t, testResultLabels) }

// Finding of an examination such as urine analysis, chest X-ray or ECG
type Finding string

const (
	FindingNormal   Finding = "NORMAL"
	FindingAbnormal Finding = "ABNORMAL"
	FindingNotDone  Finding = "NOT_DONE"
)

var findingLabels = map[Finding]string{
	FindingNormal:   "Normal",
	FindingAbnormal: "Abnormal",
	FindingNotDone:  "Not Done",
}

func (f Finding) Label() string { return labelFor(f, findingLabels) }

// FitnessStatus is the doctor's occupational fitness outcome
type FitnessStatus string

const (
	FitnessFit             FitnessStatus = "FIT"
	FitnessFitRestrictions FitnessStatus = "FIT_WITH_RESTRICTIONS"
	FitnessTemporaryUnfit  FitnessStatus = "TEMPORARILY_UNFIT"
	FitnessUnfit           FitnessStatus = "UNFIT"
)

var fitnessLabels = map[FitnessStatus]string{
	FitnessFit:             "Fit",
	FitnessFitRestrictions: "Fit with Restrictions",
	FitnessTemporaryUnfit:  "Temporarily Unfit",
	FitnessUnfit:           "Unfit",
}

func (f FitnessStatus) Label() string { return labelFor(f, fitnessLabels) }
