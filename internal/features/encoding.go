package features

// MissingCategory replaces absent categorical values before encoding.
const MissingCategory = "Missing"

// Encoding is the frozen category→code table built when a training dataset is
// cleaned, together with the statistics its missing values were imputed from.
// It is persisted next to the model and reused for later inputs so codes and
// imputed values stay stable between runs. The code of a value is its position.
type Encoding struct {
    HeartAxis  []string    `json:"heart_axis"`
    Imputation *Imputation `json:"imputation,omitempty"`
}

func (e *Encoding) add(v string) int {
    if c, ok := e.lookup(v); ok { return c }
    e.HeartAxis = append(e.HeartAxis, v)
    return len(e.HeartAxis) - 1
}

func (e *Encoding) lookup(v string) (int, bool) {
    for i, c := range e.HeartAxis {
        if c == v { return i, true }
    }
    return 0, false
}

// Code returns the code of a heart-axis value. Values never seen while the
// table was built fall back to the code of MissingCategory, or -1 if that
// category was never seen either.
func (e *Encoding) Code(v string) int {
    if c, ok := e.lookup(v); ok { return c }
    if c, ok := e.lookup(MissingCategory); ok { return c }
    return -1
}
