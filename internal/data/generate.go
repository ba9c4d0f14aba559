package data

import (
    "math/rand"
    "strconv"
    "strings"
)

var (
    heartAxes  = []string{"MID", "LAD", "ALAD", "RAD", "ARAD", "AXL", "SUP", "AXR"}
    rhythms    = []string{"SR", "AFIB", "STACH", "SARRH", "SBRAD", "PACE", "SVARR", "BIGU", "AFLT", "SVTAC", "PSVT", "TRIGU"}
    rhythmFreq = []float64{0.55, 0.10, 0.08, 0.06, 0.08, 0.03, 0.03, 0.02, 0.02, 0.01, 0.01, 0.01}
    devices    = []string{"CS-12", "AT-6", "AT-60"}
    sites      = []string{"0.0", "1.0", "2.0"}
)

// SyntheticHeader is the column layout produced by GenerateSynthetic.
var SyntheticHeader = []string{
    "ecg_id", "patient_id", "age", "sex", "height", "weight", "nurse", "site", "device",
    "recording_date", "report", "scp_codes", "heart_axis", "infarction_stadium1",
    "infarction_stadium2", "validated_by", "second_opinion", "initial_autogenerated_report",
    "validated_by_human", "baseline_drift", "static_noise", "burst_noise",
    "electrodes_problems", "extra_beats", "pacemaker", "strat_fold", "filename_lr",
    "filename_hr", "ritmi", "diagnosi",
}

// GenerateSynthetic builds a cohort-shaped metadata table with missing cells,
// so the full pipeline can be exercised without patient data. missingRate is
// the probability of blanking each of age, height, weight, heart axis and pacemaker.
func GenerateSynthetic(n int, missingRate float64, seed int64) *Table {
    rng := rand.New(rand.NewSource(seed))
    rows := make([][]string, 0, n)
    for i := 0; i < n; i++ {
        code := pick(rng, rhythms, rhythmFreq)
        sex := rng.Intn(2)
        age := 18 + rng.Intn(72)
        if rng.Float64() < 0.05 { age = rng.Intn(18) }
        height := 150 + rng.NormFloat64()*8 + float64(sex)*12
        if age < 18 { height = 60 + float64(age)*6 + rng.NormFloat64()*4 }
        weight := 55 + rng.NormFloat64()*10 + float64(sex)*12
        if age < 18 { weight = 5 + float64(age)*3 + rng.NormFloat64()*2 }
        if code == "AFIB" || code == "AFLT" { age += 8 }

        axis := heartAxes[rng.Intn(len(heartAxes))]
        pacemaker := ""
        if code == "PACE" || rng.Float64() < 0.02 { pacemaker = "ja, pacemaker" }

        ageS := strconv.Itoa(age)
        heightS := strconv.FormatFloat(height, 'f', 1, 64)
        weightS := strconv.FormatFloat(weight, 'f', 1, 64)
        if rng.Float64() < missingRate { ageS = "" }
        if rng.Float64() < missingRate { heightS = "" }
        if rng.Float64() < missingRate { weightS = "" }
        if rng.Float64() < missingRate { axis = "" }

        report := strings.ToLower(code) + " " + []string{"normales ekg", "sinusrhythmus", "vorhofflimmern", "unauffällig"}[rng.Intn(4)]
        rows = append(rows, []string{
            strconv.Itoa(i + 1),
            strconv.Itoa(10000 + rng.Intn(n*2+1)),
            ageS,
            strconv.Itoa(sex),
            heightS,
            weightS,
            strconv.Itoa(rng.Intn(12)),
            sites[rng.Intn(len(sites))],
            devices[rng.Intn(len(devices))],
            "1990-01-01 00:00:00",
            report,
            "{'" + code + "': 100.0}",
            axis,
            "", "", "", "False", report, "True", "", "", "", "", "",
            pacemaker,
            strconv.Itoa(1 + rng.Intn(10)),
            "records100/" + strconv.Itoa(i+1) + "_lr",
            "records500/" + strconv.Itoa(i+1) + "_hr",
            code,
            code,
        })
    }
    header := append([]string(nil), SyntheticHeader...)
    return NewTable(header, rows)
}

func pick(rng *rand.Rand, items []string, freq []float64) string {
    r := rng.Float64()
    acc := 0.0
    for i, f := range freq {
        acc += f
        if r < acc { return items[i] }
    }
    return items[len(items)-1]
}
