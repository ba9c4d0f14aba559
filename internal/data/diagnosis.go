package data

import "strconv"

// Column names of the cohort export.
const (
    ColAge       = "age"
    ColSex       = "sex"
    ColHeight    = "height"
    ColWeight    = "weight"
    ColHeartAxis = "heart_axis"
    ColPacemaker = "pacemaker"
    ColDiagnosis = "diagnosi"
    ColReport    = "report"
    ColPatientID = "patient_id"
)

// DropColumns are identifiers, free text and administrative fields that never
// become model features.
var DropColumns = []string{
    "ritmi", "ecg_id", "patient_id", "nurse", "site", "device", "recording_date",
    "report", "scp_codes", "infarction_stadium1", "infarction_stadium2",
    "initial_autogenerated_report", "baseline_drift", "static_noise", "burst_noise",
    "electrodes_problems", "extra_beats", "filename_lr", "filename_hr",
    "validated_by", "second_opinion", "validated_by_human", "strat_fold",
}

// DiagnosisCodes maps rhythm codes onto the closed label set. Sinus rhythm,
// sinus tachycardia and sinus bradycardia collapse into label 0.
var DiagnosisCodes = map[string]int{
    "SR":    0,
    "AFIB":  1,
    "STACH": 0,
    "SARRH": 2,
    "SBRAD": 0,
    "PACE":  3,
    "SVARR": 4,
    "BIGU":  5,
    "AFLT":  6,
    "SVTAC": 7,
    "PSVT":  8,
    "TRIGU": 9,
}

// NumClasses is the size of the closed label set.
const NumClasses = 10

// NoLabel marks a record whose diagnosis code is outside the vocabulary.
const NoLabel = -1

var labelNames = [NumClasses]string{
    "Sinus Rhythm",
    "Atrial Fibrillation",
    "Sinus Arrhythmia",
    "Normal Functioning Artificial Pacemaker",
    "Supraventricular Arrhythmia",
    "Bigeminal Pattern (Unknown Origin, SV or Ventricular)",
    "Atrial Flutter",
    "Supraventricular Tachycardia",
    "Paroxysmal Supraventricular Tachycardia",
    "Trigeminal Pattern (Unknown Origin, SV or Ventricular)",
}

var shortLabels = [NumClasses]string{
    "NSR", "AFIB", "SARRH", "PACE", "SVARR", "BIGU", "AFLT", "SVTAC", "PSVT", "TRIGU",
}

// LabelOf maps a diagnosis code to its label, NoLabel when unknown.
func LabelOf(code string) int {
    if l, ok := DiagnosisCodes[code]; ok { return l }
    return NoLabel
}

// LabelName returns the human-readable name of a label, falling back to the
// numeric code for labels outside the vocabulary.
func LabelName(label int) string {
    if label >= 0 && label < NumClasses { return labelNames[label] }
    return strconv.Itoa(label)
}

// ShortLabel is the axis label used for confusion matrices.
func ShortLabel(label int) string {
    if label >= 0 && label < NumClasses { return shortLabels[label] }
    return strconv.Itoa(label)
}

// Labels returns the closed label set in order.
func Labels() []int {
    out := make([]int, NumClasses)
    for i := range out { out[i] = i }
    return out
}
