package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lazyserp/CuraVie/internal/models"
)

// DefaultRegion is named in the role line when none is configured
const DefaultRegion = "Kerala, India"

const promptTask = `Task: Using all the above, produce the following strictly structured output:
1. Overall Health Summary (2-4 sentences)
2. Key Health Risks (3-6 bullets). For each, explain WHY based on the data.
3. Personalized Recommendations
   - Diet & Nutrition (4-6 bullets)
   - Lifestyle Changes (4-6 bullets)
   - Preventive Actions (4-6 bullets)
4. Follow-up Plan (if any), including timelines and what to monitor
5. Flags for Immediate Medical Attention (if any)

Rules:
- Be concise and practical. Use bullet points.
- Do not invent data; if a field is N/A, skip it.
- Avoid markdown bold markers (**) in the response.
`

// CompilePrompt builds the generation prompt from a profile and a selection.
// The output depends only on its inputs. Free-text fields are inserted
// verbatim; every other value goes through Safe.
func CompilePrompt(profile *models.WorkerProfile, sel Selection, region string) string {
	if strings.TrimSpace(region) == "" {
		region = DefaultRegion
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Role: You are a public health expert analyzing a migrant worker's health in %s. "+
		"Provide a clear, empathetic, and actionable assessment in simple language.\n\n", region)

	b.WriteString("Worker Profile:\n")
	writeProfile(&b, profile)

	b.WriteString("\nLatest Medical Checkup:\n")
	writeCheckup(&b, sel.Latest)

	b.WriteString("\nLaboratory Results:\n")
	var lab *models.LabResults
	var eval *models.DoctorEvaluation
	if sel.Latest != nil {
		lab = sel.Latest.LabResults
		eval = sel.Latest.DoctorEvaluation
	}
	writeLabResults(&b, lab)

	b.WriteString("\nDoctor Evaluation:\n")
	writeEvaluation(&b, eval)

	fmt.Fprintf(&b, "\nRecent Vaccinations (up to %d):\n", MaxRecent)
	if len(sel.Vaccinations) == 0 {
		b.WriteString("- None\n")
	}
	for _, v := range sel.Vaccinations {
		fmt.Fprintf(&b, "- %s (Dose %s) on %s\n", Safe(v.VaccineName), Safe(v.DoseNumber), Safe(v.DateAdministered))
	}

	fmt.Fprintf(&b, "\nRecent Medical Visits (up to %d):\n", MaxRecent)
	if len(sel.Visits) == 0 {
		b.WriteString("- None\n")
	}
	for _, v := range sel.Visits {
		fmt.Fprintf(&b, "- %s: %s @ %s; Diagnosis: %s\n", Safe(v.VisitDate), Safe(v.DoctorName), facility(v), Safe(v.Diagnosis))
	}

	b.WriteString("\n")
	b.WriteString(promptTask)

	return b.String()
}

type field struct {
	label string
	value string
}

func writeFields(b *strings.Builder, fields []field) {
	for _, f := range fields {
		fmt.Fprintf(b, "- %s: %s\n", f.label, f.value)
	}
}

func writeProfile(b *strings.Builder, p *models.WorkerProfile) {
	if p == nil {
		p = &models.WorkerProfile{}
	}
	writeFields(b, []field{
		{"Full Name", Safe(p.FullName())},
		{"Age", Safe(p.Age)},
		{"Date of Birth", Safe(p.DateOfBirth)},
		{"Gender", Safe(p.Gender)},
		{"Nationality", Safe(p.Nationality)},
		{"Home State", Safe(p.HomeState)},
		{"Preferred Language", Safe(p.PreferredLanguage)},
		{"Migrant Worker", Safe(p.IsMigrant)},
		{"Occupation", Safe(p.Occupation)},
		{"Years in Occupation", Safe(p.YearsInOccupation)},
		{"Employer", Safe(p.EmployerName)},
		{"Work Location", Safe(p.WorkLocation)},
		{"Average Daily Work Hours", Safe(p.WorkHoursPerDay)},
		{"Physical Strain of Job", Safe(p.PhysicalStrain)},
		{"PPE Usage", Safe(p.PPEUsage)},
		{"Smoking Habit", Safe(p.SmokingHabit)},
		{"Alcohol Consumption", Safe(p.AlcoholConsumption)},
		{"Diet Type", Safe(p.DietType)},
		{"Meals Per Day", Safe(p.MealsPerDay)},
		{"Junk Food Frequency", Safe(p.JunkFoodFrequency)},
		{"Sleep Hours/Night", Safe(p.SleepHoursPerNight)},
		{"Accommodation Type", Safe(p.AccommodationType)},
		{"Sanitation Quality", Safe(p.SanitationQuality)},
		{"Access to Clean Water", Safe(p.AccessToCleanWater)},
		{"Housing Condition", Safe(p.HousingCondition)},
		{"Chronic Diseases", Safe(p.ChronicDiseases)},
		{"Stress Level (1-10)", Safe(p.StressLevel)},
	})
}

func writeCheckup(b *strings.Builder, c *models.MedicalCheckup) {
	if c == nil {
		b.WriteString(NoCheckupSentence + "\n")
		return
	}
	writeFields(b, []field{
		{"Date of Checkup", Safe(c.DateOfCheckup)},
		{"Height (cm)", Safe(c.HeightCm)},
		{"Weight (kg)", Safe(c.WeightKg)},
		{"BMI", Safe(c.BMI)},
		{"BP", Safe(c.BloodPressureSystolic) + "/" + Safe(c.BloodPressureDiastolic) + " mmHg"},
		{"Pulse (bpm)", Safe(c.PulseRate)},
		{"Temperature (°C)", Safe(c.TemperatureCelsius)},
		{"Vision (L/R)", Safe(c.VisionLeft) + "/" + Safe(c.VisionRight)},
		{"Hearing", Safe(c.HearingTestResult)},
		{"Respiratory Rate", Safe(c.RespiratoryRate)},
		{"SpO2 (%)", Safe(c.OxygenSaturation)},
		{"Checkup Type", Safe(c.CheckupType)},
		{"Geo Location", Safe(c.GeoLocation)},
		{"Risk Category", Safe(c.RiskCategory)},
		{"Disease Prediction Score", Safe(c.DiseasePredictionScore)},
	})
}

func writeLabResults(b *strings.Builder, l *models.LabResults) {
	if l == nil {
		b.WriteString(NoLabResultsSentence + "\n")
		return
	}
	writeFields(b, []field{
		{"Hemoglobin (g/dL)", Safe(l.HemoglobinGDL)},
		{"Sugar (F/PP mg/dL)", Safe(l.BloodSugarFasting) + " / " + Safe(l.BloodSugarPostprandial)},
		{"Lipids (Total/Trig/HDL/LDL)", strings.Join([]string{
			Safe(l.CholesterolTotal), Safe(l.Triglycerides), Safe(l.HDLCholesterol), Safe(l.LDLCholesterol),
		}, " / ")},
		{"HIV", Safe(l.HIVTestResult)},
		{"Hepatitis B", Safe(l.HepatitisBResult)},
		{"Hepatitis C", Safe(l.HepatitisCResult)},
		{"TB Screening", Safe(l.TuberculosisScreening)},
		{"Malaria", Safe(l.MalariaTestResult)},
		{"Urine Test", Safe(l.UrineTestResult)},
		{"Chest X-ray", Safe(l.ChestXrayResult)},
		{"ECG", Safe(l.ECGResult)},
	})
}

func writeEvaluation(b *strings.Builder, e *models.DoctorEvaluation) {
	if e == nil {
		b.WriteString(NoEvaluationSentence + "\n")
		return
	}
	writeFields(b, []field{
		{"Doctor", Safe(e.DoctorName) + " (Reg: " + Safe(e.DoctorRegistrationNumber) + ")"},
		{"Findings", Safe(e.GeneralPhysicalFindings)},
		{"Diagnosis", Safe(e.Diagnosis)},
		{"Recommendations", Safe(e.Recommendations)},
		{"Fitness Status", Safe(e.FitnessStatus)},
		{"Follow-up Required", Safe(e.FollowUpRequired)},
		{"Follow-up Date", Safe(e.FollowUpDate)},
		{"Report Generated By", Safe(e.ReportGeneratedBy) + " on " + Safe(e.ReportGeneratedOn)},
		{"Verified By", Safe(e.ReportVerifiedBy)},
		{"Remarks", Safe(e.Remarks)},
	})
}

// facility names the visited facility, preferring its name over its ID
func facility(v models.MedicalVisit) string {
	if name := strings.TrimSpace(v.FacilityName); name != "" {
		return name
	}
	if v.FacilityID != nil {
		return "facility " + strconv.FormatInt(*v.FacilityID, 10)
	}
	return "facility " + Placeholder
}
