package workers

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyserp/CuraVie/internal/models"
)

func TestLoadFile_AllFormatsAgree(t *testing.T) {
	for _, name := range []string{"asha.json", "asha.yaml", "asha.toml"} {
		t.Run(name, func(t *testing.T) {
			w, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, int64(17), w.ID)
			require.NotNil(t, w.Profile)
			assert.Equal(t, "Asha K.", w.DisplayName())
			require.NotNil(t, w.Profile.Age)
			assert.Equal(t, 29, *w.Profile.Age)
			assert.Equal(t, models.DietNonVeg, w.Profile.DietType)
			require.NotNil(t, w.Profile.IsMigrant)
			assert.True(t, *w.Profile.IsMigrant)
			assert.Equal(t, []string{"Anaemia"}, w.Profile.ChronicDiseases)
			assert.Nil(t, w.Profile.AccessToCleanWater, "absent flags stay unknown")

			require.Len(t, w.Checkups, 2)
			assert.Equal(t, "2024-04-18", w.Checkups[1].DateOfCheckup.String())
			require.NotNil(t, w.Checkups[1].LabResults)
			assert.Equal(t, models.TestPositive, w.Checkups[1].LabResults.MalariaTestResult)
			assert.Nil(t, w.Checkups[0].LabResults)
			assert.Nil(t, w.Checkups[1].DoctorEvaluation)

			require.Len(t, w.Vaccinations, 1)
			assert.Equal(t, "2024-01-09", w.Vaccinations[0].DateAdministered.String())
			require.Len(t, w.Visits, 1)
			assert.Equal(t, "PHC Perumbavoor", w.Visits[0].FacilityName)
		})
	}
}

func TestLoadFile_NoProfileIsNotAnError(t *testing.T) {
	w, err := LoadFile(filepath.Join("testdata", "no_profile.json"))
	require.NoError(t, err)
	assert.Nil(t, w.Profile)
	assert.Len(t, w.Vaccinations, 1)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "invalid_age.yaml"))
	assert.ErrorContains(t, err, "invalid worker record")

	_, err = LoadFile(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)

	_, err = LoadFile("worker.csv")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr bool
	}{
		{"json", `{"profile":{"first_name":"Ravi"}}`, FormatJSON, false},
		{"unparseable date kept", `{"visits":[{"visit_date":"last week"}]}`, FormatJSON, false},
		{"broken json", `{"profile":`, FormatJSON, true},
		{"yaml", "profile:\n  first_name: Ravi\n", FormatYAML, false},
		{"broken yaml", "profile: [", FormatYAML, true},
		{"toml", "[profile]\nfirst_name = \"Ravi\"\n", FormatTOML, false},
		{"broken toml", "[profile\n", FormatTOML, true},
		{"unknown format", `{}`, Format("xml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"w.json":         FormatJSON,
		"W.JSON":         FormatJSON,
		"w.yaml":         FormatYAML,
		"dir/w.yml":      FormatYAML,
		"exports/w.toml": FormatTOML,
	}
	for path, want := range tests {
		got, err := FormatForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatForPath("w.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
