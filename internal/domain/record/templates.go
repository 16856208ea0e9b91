package record

import (
	"fmt"
	"strings"
)

// Field names a free-text part of a record draft.
type Field string

const (
	FieldDiagnosis     Field = "diagnosis"
	FieldPrescriptions Field = "prescriptions"
	FieldLabNotes      Field = "labNotes"
	FieldComments      Field = "comments"
)

// ParseField accepts the wire names and a few spellings used on the command
// line.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "diagnosis", "dx":
		return FieldDiagnosis, nil
	case "prescriptions", "prescription", "rx":
		return FieldPrescriptions, nil
	case "labnotes", "lab-notes", "lab", "labs":
		return FieldLabNotes, nil
	case "comments", "comment":
		return FieldComments, nil
	}
	return "", fmt.Errorf("unknown record field %q", s)
}

// Template is a canned block of text for one field.
type Template struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

var catalog = map[Field][]Template{
	FieldDiagnosis: {
		{"URTI (Upper Respiratory Tract Infection)", "Diagnosis: Upper Respiratory Tract Infection (URTI)\nSymptoms: Sore throat, nasal congestion, cough, low-grade fever\nExam: Mild pharyngeal erythema, lungs clear\nPlan: Symptomatic management; consider antibiotics only if bacterial suspected"},
		{"Type 2 Diabetes Mellitus - Uncontrolled", "Diagnosis: Type 2 Diabetes Mellitus - uncontrolled\nFindings: Elevated fasting glucose, HbA1c above target\nPlan: Optimize medications, reinforce diet/exercise, monitor glucose logs"},
		{"Hypertension - Stage 2", "Diagnosis: Hypertension - Stage 2\nBP persistently elevated above target\nPlan: Initiate/intensify antihypertensive therapy and lifestyle modification"},
		{"Acute Gastroenteritis", "Diagnosis: Acute Gastroenteritis\nSymptoms: Nausea, vomiting, diarrhea, abdominal cramps\nPlan: Oral rehydration, antiemetic PRN, observe warning signs"},
		{"Migraine without aura", "Diagnosis: Migraine without aura\nFeatures: Unilateral throbbing headache, photophobia/phonophobia\nPlan: Trigger avoidance, acute abortive therapy, consider prophylaxis if frequent"},
	},
	FieldPrescriptions: {
		{"URTI regimen", "Amoxicillin 500 mg PO TID x5 days (if bacterial suspected)\nCetirizine 10 mg PO HS x5 days\nSteam inhalation BID\nHydration and rest"},
		{"Hypertension regimen", "Amlodipine 5 mg PO OD\nLosartan 50 mg PO OD\nLow-salt DASH diet, exercise 150 min/week"},
		{"T2DM regimen", "Metformin 500 mg PO BID with meals\nGlimepiride 1 mg PO OD before breakfast\nDietary counseling and daily exercise"},
		{"Migraine regimen", "Sumatriptan 50 mg PO at onset, may repeat after 2 hours (max 200 mg/day)\nNaproxen 500 mg PO BID with food PRN pain\nAvoid known triggers"},
		{"GERD regimen", "Omeprazole 20 mg PO OD x14 days\nLifestyle: elevate head-end, avoid late meals, caffeine, spicy foods"},
	},
	FieldLabNotes: {
		{"Infection workup", "Ordered: CBC, CRP, ESR\nNotes: Monitor trends, correlate clinically\nStatus: Pending"},
		{"Diabetes monitoring", "Ordered: FPG, HbA1c, Urine microalbumin\nGoal: HbA1c < 7% (individualize)\nPlan: Repeat in 3 months"},
		{"Cardiovascular risk", "Ordered: Lipid panel (TC, LDL, HDL, TG)\nAssess ASCVD risk and target LDL < 100 mg/dL (or per guideline)"},
		{"Gastro workup", "Ordered: Stool R/E, Ova & Parasite, Stool culture if indicated\nHydration status monitored"},
		{"Neuro imaging", "Imaging: MRI Brain without/with contrast\nIndication: Recurrent severe headaches\nAwait radiology report"},
	},
}

// Templates lists the templates for field in display order. Comments have
// none.
func Templates(field Field) []Template {
	return append([]Template(nil), catalog[field]...)
}

// FindTemplate looks a template up by label, ignoring case.
func FindTemplate(field Field, label string) (Template, bool) {
	label = strings.TrimSpace(label)
	for _, t := range catalog[field] {
		if strings.EqualFold(t.Label, label) {
			return t, true
		}
	}
	return Template{}, false
}

// Compose merges template into current. An empty template leaves current
// alone; in append mode a non-empty current gets a blank line and then the
// template; otherwise the template replaces current.
func Compose(current, template string, appendMode bool) string {
	if template == "" {
		return current
	}
	if appendMode && current != "" {
		return current + "\n\n" + template
	}
	return template
}
