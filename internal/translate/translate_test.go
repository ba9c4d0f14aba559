package translate

import (
    "context"
    "errors"
    "io"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/goccy/go-json"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/mock/gomock"
    "golang.org/x/text/language"

    "ecgrhythm/internal/data"
)

func TestTextFallsBackToOriginal(t *testing.T) {
    ctrl := gomock.NewController(t)
    client := NewMockClient(ctrl)
    client.EXPECT().Translate(gomock.Any(), "Sinusrhythmus", language.German, language.English).Return("sinus rhythm", nil)
    client.EXPECT().Translate(gomock.Any(), "Vorhofflimmern", language.German, language.English).Return("", errors.New("quota exceeded"))

    tr := New(client, nil)
    ctx := context.Background()
    assert.Equal(t, "sinus rhythm", tr.Text(ctx, "Sinusrhythmus"))
    assert.Equal(t, "Vorhofflimmern", tr.Text(ctx, "Vorhofflimmern"))
    assert.Equal(t, "  ", tr.Text(ctx, "  "), "blank text is not sent")
}

func TestColumnTranslatesDistinctCellsOnce(t *testing.T) {
    ctrl := gomock.NewController(t)
    client := NewMockClient(ctrl)
    client.EXPECT().Translate(gomock.Any(), "Sinusrhythmus", gomock.Any(), gomock.Any()).Return("sinus rhythm", nil).Times(1)
    client.EXPECT().Translate(gomock.Any(), "unlesbar", gomock.Any(), gomock.Any()).Return("", errors.New("bad input")).Times(1)

    tbl := data.NewTable([]string{"ecg_id", "report"}, [][]string{
        {"1", "Sinusrhythmus"}, {"2", "unlesbar"}, {"3", "Sinusrhythmus"}, {"4", ""},
    })
    changed, err := New(client, nil).Column(context.Background(), tbl, "report")
    require.NoError(t, err)
    assert.Equal(t, 2, changed)
    assert.Equal(t, "sinus rhythm", tbl.Get(0, "report"))
    assert.Equal(t, "unlesbar", tbl.Get(1, "report"))
    assert.Equal(t, "sinus rhythm", tbl.Get(2, "report"))
    assert.Equal(t, "", tbl.Get(3, "report"))

    _, err = New(client, nil).Column(context.Background(), tbl, "bericht")
    assert.ErrorIs(t, err, data.ErrSchema)
}

func TestHTTPClient(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/translate", r.URL.Path)
        assert.Equal(t, http.MethodPost, r.Method)
        raw, _ := io.ReadAll(r.Body)
        var req translateRequest
        require.NoError(t, json.Unmarshal(raw, &req))
        assert.Equal(t, "de", req.Source)
        assert.Equal(t, "en", req.Target)
        assert.Equal(t, "secret", req.APIKey)
        if req.Q == "kaputt" {
            w.WriteHeader(http.StatusBadRequest)
            _, _ = w.Write([]byte(`{"error":"cannot translate"}`))
            return
        }
        _, _ = w.Write([]byte(`{"translatedText":"normal ECG"}`))
    }))
    defer srv.Close()

    c := NewHTTPClient(srv.URL+"/", "secret", 2*time.Second)
    out, err := c.Translate(context.Background(), "normales EKG", language.German, language.English)
    require.NoError(t, err)
    assert.Equal(t, "normal ECG", out)

    _, err = c.Translate(context.Background(), "kaputt", language.German, language.English)
    assert.ErrorContains(t, err, "cannot translate")

    tr := New(c, nil)
    assert.Equal(t, "kaputt", tr.Text(context.Background(), "kaputt"))
}

func TestHTTPClientUnreachable(t *testing.T) {
    srv := httptest.NewServer(http.NotFoundHandler())
    srv.Close()
    _, err := NewHTTPClient(srv.URL, "", time.Second).Translate(context.Background(), "x", language.German, language.English)
    assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
    assert.Equal(t, "data/coorteeqsrafva_en.csv", OutputPath("data/coorteeqsrafva.csv"))
    assert.Equal(t, "reports_en", OutputPath("reports"))
}
