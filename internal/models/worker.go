package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Worker is the aggregate handed to the report pipeline by the persistence
// layer: an optional profile plus the fully loaded record collections.
// Collections may be nil or empty.
type Worker struct {
	ID           int64            `json:"id" yaml:"id" toml:"id"`
	Profile      *WorkerProfile   `json:"profile,omitempty" yaml:"profile,omitempty" toml:"profile,omitempty" validate:"omitempty"`
	Checkups     []MedicalCheckup `json:"checkups,omitempty" yaml:"checkups,omitempty" toml:"checkups,omitempty" validate:"omitempty,dive"`
	Vaccinations []Vaccination    `json:"vaccinations,omitempty" yaml:"vaccinations,omitempty" toml:"vaccinations,omitempty" validate:"omitempty,dive"`
	Visits       []MedicalVisit   `json:"visits,omitempty" yaml:"visits,omitempty" toml:"visits,omitempty" validate:"omitempty,dive"`
}

// DisplayName returns first and last name, trimmed and space-joined.
// Returns "" when there is no profile.
func (w *Worker) DisplayName() string {
	if w == nil || w.Profile == nil {
		return ""
	}
	return w.Profile.FullName()
}

// Validate checks value ranges with go-playground/validator.
// Missing fields are never an error: the pipeline renders them as placeholders.
func (w *Worker) Validate() error {
	validate := validator.New()
	return validate.Struct(w)
}

// WorkerProfile holds bio, occupational, lifestyle and living-condition data
type WorkerProfile struct {
	// Bio
	FirstName         string `json:"first_name" yaml:"first_name" toml:"first_name"`
	LastName          string `json:"last_name,omitempty" yaml:"last_name,omitempty" toml:"last_name,omitempty"`
	Age               *int   `json:"age,omitempty" yaml:"age,omitempty" toml:"age,omitempty" validate:"omitempty,min=0,max=130"`
	DateOfBirth       Date   `json:"date_of_birth" yaml:"date_of_birth,omitempty" toml:"date_of_birth,omitempty"`
	Gender            Gender `json:"gender,omitempty" yaml:"gender,omitempty" toml:"gender,omitempty"`
	Nationality       string `json:"nationality,omitempty" yaml:"nationality,omitempty" toml:"nationality,omitempty"`
	HomeState         string `json:"home_state,omitempty" yaml:"home_state,omitempty" toml:"home_state,omitempty"`
	Phone             string `json:"phone,omitempty" yaml:"phone,omitempty" toml:"phone,omitempty"`
	PreferredLanguage string `json:"preferred_language,omitempty" yaml:"preferred_language,omitempty" toml:"preferred_language,omitempty"`

	// Occupation
	Occupation        Occupation `json:"occupation,omitempty" yaml:"occupation,omitempty" toml:"occupation,omitempty"`
	EmployerName      string     `json:"employer_name,omitempty" yaml:"employer_name,omitempty" toml:"employer_name,omitempty"`
	WorkLocation      string     `json:"work_location,omitempty" yaml:"work_location,omitempty" toml:"work_location,omitempty"`
	WorkHoursPerDay   *int       `json:"work_hours_per_day,omitempty" yaml:"work_hours_per_day,omitempty" toml:"work_hours_per_day,omitempty" validate:"omitempty,min=0,max=24"`
	YearsInOccupation *int       `json:"years_in_occupation,omitempty" yaml:"years_in_occupation,omitempty" toml:"years_in_occupation,omitempty" validate:"omitempty,min=0"`
	IsMigrant         *bool      `json:"is_migrant,omitempty" yaml:"is_migrant,omitempty" toml:"is_migrant,omitempty"`
	PhysicalStrain    Level      `json:"physical_strain,omitempty" yaml:"physical_strain,omitempty" toml:"physical_strain,omitempty"`
	PPEUsage          PPEUsage   `json:"ppe_usage,omitempty" yaml:"ppe_usage,omitempty" toml:"ppe_usage,omitempty"`

	// Lifestyle
	SmokingHabit       Frequency `json:"smoking_habit,omitempty" yaml:"smoking_habit,omitempty" toml:"smoking_habit,omitempty"`
	AlcoholConsumption Frequency `json:"alcohol_consumption,omitempty" yaml:"alcohol_consumption,omitempty" toml:"alcohol_consumption,omitempty"`
	DietType           DietType  `json:"diet_type,omitempty" yaml:"diet_type,omitempty" toml:"diet_type,omitempty"`
	MealsPerDay        *int      `json:"meals_per_day,omitempty" yaml:"meals_per_day,omitempty" toml:"meals_per_day,omitempty" validate:"omitempty,min=0,max=12"`
	JunkFoodFrequency  Frequency `json:"junk_food_frequency,omitempty" yaml:"junk_food_frequency,omitempty" toml:"junk_food_frequency,omitempty"`
	SleepHoursPerNight *float64  `json:"sleep_hours_per_night,omitempty" yaml:"sleep_hours_per_night,omitempty" toml:"sleep_hours_per_night,omitempty" validate:"omitempty,min=0,max=24"`
	StressLevel        *int      `json:"stress_level,omitempty" yaml:"stress_level,omitempty" toml:"stress_level,omitempty" validate:"omitempty,min=1,max=10"`
	ChronicDiseases    []string  `json:"chronic_diseases,omitempty" yaml:"chronic_diseases,omitempty" toml:"chronic_diseases,omitempty"`

	// Living conditions
	AccommodationType  AccommodationType `json:"accommodation_type,omitempty" yaml:"accommodation_type,omitempty" toml:"accommodation_type,omitempty"`
	SanitationQuality  Quality           `json:"sanitation_quality,omitempty" yaml:"sanitation_quality,omitempty" toml:"sanitation_quality,omitempty"`
	AccessToCleanWater *bool             `json:"access_to_clean_water,omitempty" yaml:"access_to_clean_water,omitempty" toml:"access_to_clean_water,omitempty"`
	HousingCondition   string            `json:"housing_condition,omitempty" yaml:"housing_condition,omitempty" toml:"housing_condition,omitempty"`
}

// FullName returns first and last name, trimmed and space-joined
func (p *WorkerProfile) FullName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// MedicalCheckup is one dated examination snapshot. Lab results and the
// doctor's evaluation are optional and may be recorded later.
type MedicalCheckup struct {
	ID                     int64         `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	DateOfCheckup          Date          `json:"date_of_checkup" yaml:"date_of_checkup,omitempty" toml:"date_of_checkup,omitempty"`
	HeightCm               *float64      `json:"height_cm,omitempty" yaml:"height_cm,omitempty" toml:"height_cm,omitempty" validate:"omitempty,gt=0"`
	WeightKg               *float64      `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty" toml:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	BMI                    *float64      `json:"bmi,omitempty" yaml:"bmi,omitempty" toml:"bmi,omitempty" validate:"omitempty,gt=0"`
	BloodPressureSystolic  *int          `json:"blood_pressure_systolic,omitempty" yaml:"blood_pressure_systolic,omitempty" toml:"blood_pressure_systolic,omitempty" validate:"omitempty,gt=0"`
	BloodPressureDiastolic *int          `json:"blood_pressure_diastolic,omitempty" yaml:"blood_pressure_diastolic,omitempty" toml:"blood_pressure_diastolic,omitempty" validate:"omitempty,gt=0"`
	PulseRate              *int          `json:"pulse_rate,omitempty" yaml:"pulse_rate,omitempty" toml:"pulse_rate,omitempty" validate:"omitempty,gt=0"`
	TemperatureCelsius     *float64      `json:"temperature_celsius,omitempty" yaml:"temperature_celsius,omitempty" toml:"temperature_celsius,omitempty"`
	VisionLeft             string        `json:"vision_left,omitempty" yaml:"vision_left,omitempty" toml:"vision_left,omitempty"`
	VisionRight            string        `json:"vision_right,omitempty" yaml:"vision_right,omitempty" toml:"vision_right,omitempty"`
	HearingTestResult      HearingResult `json:"hearing_test_result,omitempty" yaml:"hearing_test_result,omitempty" toml:"hearing_test_result,omitempty"`
	RespiratoryRate        *int          `json:"respiratory_rate,omitempty" yaml:"respiratory_rate,omitempty" toml:"respiratory_rate,omitempty" validate:"omitempty,gt=0"`
	OxygenSaturation       *float64      `json:"oxygen_saturation,omitempty" yaml:"oxygen_saturation,omitempty" toml:"oxygen_saturation,omitempty" validate:"omitempty,min=0,max=100"`
	CheckupType            CheckupType   `json:"checkup_type,omitempty" yaml:"checkup_type,omitempty" toml:"checkup_type,omitempty"`
	GeoLocation            string        `json:"geo_location,omitempty" yaml:"geo_location,omitempty" toml:"geo_location,omitempty"`
	RiskCategory           string        `json:"risk_category,omitempty" yaml:"risk_category,omitempty" toml:"risk_category,omitempty"`
	DiseasePredictionScore *float64      `json:"disease_prediction_score,omitempty" yaml:"disease_prediction_score,omitempty" toml:"disease_prediction_score,omitempty"`

	LabResults       *LabResults       `json:"lab_results,omitempty" yaml:"lab_results,omitempty" toml:"lab_results,omitempty" validate:"omitempty"`
	DoctorEvaluation *DoctorEvaluation `json:"doctor_evaluation,omitempty" yaml:"doctor_evaluation,omitempty" toml:"doctor_evaluation,omitempty" validate:"omitempty"`
}

// LabResults is the laboratory panel attached to a checkup
type LabResults struct {
	HemoglobinGDL           *float64   `json:"hemoglobin_g_dl,omitempty" yaml:"hemoglobin_g_dl,omitempty" toml:"hemoglobin_g_dl,omitempty" validate:"omitempty,min=0"`
	BloodSugarFasting       *float64   `json:"blood_sugar_fasting,omitempty" yaml:"blood_sugar_fasting,omitempty" toml:"blood_sugar_fasting,omitempty" validate:"omitempty,min=0"`
	BloodSugarPostprandial  *float64   `json:"blood_sugar_postprandial,omitempty" yaml:"blood_sugar_postprandial,omitempty" toml:"blood_sugar_postprandial,omitempty" validate:"omitempty,min=0"`
	CholesterolTotal        *float64   `json:"cholesterol_total,omitempty" yaml:"cholesterol_total,omitempty" toml:"cholesterol_total,omitempty" validate:"omitempty,min=0"`
	Triglycerides           *float64   `json:"triglycerides,omitempty" yaml:"triglycerides,omitempty" toml:"triglycerides,omitempty" validate:"omitempty,min=0"`
	HDLCholesterol          *float64   `json:"hdl_cholesterol,omitempty" yaml:"hdl_cholesterol,omitempty" toml:"hdl_cholesterol,omitempty" validate:"omitempty,min=0"`
	LDLCholesterol          *float64   `json:"ldl_cholesterol,omitempty" yaml:"ldl_cholesterol,omitempty" toml:"ldl_cholesterol,omitempty" validate:"omitempty,min=0"`
	HIVTestResult           TestResult `json:"hiv_test_result,omitempty" yaml:"hiv_test_result,omitempty" toml:"hiv_test_result,omitempty"`
	HepatitisBResult        TestResult `json:"hepatitis_b_result,omitempty" yaml:"hepatitis_b_result,omitempty" toml:"hepatitis_b_result,omitempty"`
	HepatitisCResult        TestResult `json:"hepatitis_c_result,omitempty" yaml:"hepatitis_c_result,omitempty" toml:"hepatitis_c_result,omitempty"`
	TuberculosisScreening   TestResult `json:"tuberculosis_screening_result,omitempty" yaml:"tuberculosis_screening_result,omitempty" toml:"tuberculosis_screening_result,omitempty"`
	MalariaTestResult       TestResult `json:"malaria_test_result,omitempty" yaml:"malaria_test_result,omitempty" toml:"malaria_test_result,omitempty"`
	UrineTestResult         Finding    `json:"urine_test_result,omitempty" yaml:"urine_test_result,omitempty" toml:"urine_test_result,omitempty"`
	ChestXrayResult         Finding    `json:"xray_chest_result,omitempty" yaml:"xray_chest_result,omitempty" toml:"xray_chest_result,omitempty"`
	ECGResult               Finding    `json:"ecg_result,omitempty" yaml:"ecg_result,omitempty" toml:"ecg_result,omitempty"`
}

// DoctorEvaluation is the examining doctor's assessment of a checkup
type DoctorEvaluation struct {
	DoctorName               string        `json:"doctor_name,omitempty" yaml:"doctor_name,omitempty" toml:"doctor_name,omitempty"`
	DoctorRegistrationNumber string        `json:"doctor_registration_number,omitempty" yaml:"doctor_registration_number,omitempty" toml:"doctor_registration_number,omitempty"`
	GeneralPhysicalFindings  string        `json:"general_physical_findings,omitempty" yaml:"general_physical_findings,omitempty" toml:"general_physical_findings,omitempty"`
	Diagnosis                string        `json:"diagnosis,omitempty" yaml:"diagnosis,omitempty" toml:"diagnosis,omitempty"`
	Recommendations          string        `json:"recommendations,omitempty" yaml:"recommendations,omitempty" toml:"recommendations,omitempty"`
	FitnessStatus            FitnessStatus `json:"fitness_status,omitempty" yaml:"fitness_status,omitempty" toml:"fitness_status,omitempty"`
	FollowUpRequired         *bool         `json:"follow_up_required,omitempty" yaml:"follow_up_required,omitempty" toml:"follow_up_required,omitempty"`
	FollowUpDate             Date          `json:"follow_up_date" yaml:"follow_up_date,omitempty" toml:"follow_up_date,omitempty"`
	ReportGeneratedBy        string        `json:"report_generated_by,omitempty" yaml:"report_generated_by,omitempty" toml:"report_generated_by,omitempty"`
	ReportGeneratedOn        Date          `json:"report_generated_on" yaml:"report_generated_on,omitempty" toml:"report_generated_on,omitempty"`
	ReportVerifiedBy         string        `json:"report_verified_by,omitempty" yaml:"report_verified_by,omitempty" toml:"report_verified_by,omitempty"`
	Remarks                  string        `json:"remarks,omitempty" yaml:"remarks,omitempty" toml:"remarks,omitempty"`
}

// Vaccination is one administered dose
type Vaccination struct {
	ID               int64  `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	VaccineName      string `json:"vaccine_name,omitempty" yaml:"vaccine_name,omitempty" toml:"vaccine_name,omitempty"`
	DoseNumber       *int   `json:"dose_number,omitempty" yaml:"dose_number,omitempty" toml:"dose_number,omitempty" validate:"omitempty,min=1"`
	DateAdministered Date   `json:"date_administered" yaml:"date_administered,omitempty" toml:"date_administered,omitempty"`
}

// MedicalVisit is a visit to a healthcare facility
type MedicalVisit struct {
	ID           int64  `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	FacilityID   *int64 `json:"facility_id,omitempty" yaml:"facility_id,omitempty" toml:"facility_id,omitempty"`
	FacilityName string `json:"facility_name,omitempty" yaml:"facility_name,omitempty" toml:"facility_name,omitempty"`
	DoctorName   string `json:"doctor_name,omitempty" yaml:"doctor_name,omitempty" toml:"doctor_name,omitempty"`
	VisitDate    Date   `json:"visit_date" yaml:"visit_date,omitempty" toml:"visit_date,omitempty"`
	Diagnosis    string `json:"diagnosis,omitempty" yaml:"diagnosis,omitempty" toml:"diagnosis,omitempty"`
}
