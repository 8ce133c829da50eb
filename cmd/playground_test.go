package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/inlineedit/internal/config"
)

const testForm = `title: Contact
fields:
  - name: city
    title: City
`

func TestPlaygroundCommand_Flags(t *testing.T) {
	for _, name := range []string{"form", "values", "trace-file", "trace-endpoint", "trace-insecure", "no-watch", "journal"} {
		require.NotNil(t, playgroundCmd.Flags().Lookup(name), name)
	}
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("dir"))
}

func TestLoadForm_Default(t *testing.T) {
	form, reloads, err := loadForm("", true)
	require.NoError(t, err)
	require.Nil(t, reloads)
	require.Equal(t, "Profile", form.Title)
}

func TestLoadForm_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testForm), 0o600))

	form, reloads, err := loadForm(path, false)
	require.NoError(t, err)
	require.Nil(t, reloads)
	require.Equal(t, "Contact", form.Title)
	require.Equal(t, []string{"city"}, form.Names())
}

func TestLoadForm_Missing(t *testing.T) {
	_, _, err := loadForm(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.Error(t, err)
}

func TestLoadForm_WatchDeliversReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testForm), 0o600))

	form, reloads, err := loadForm(path, true)
	require.NoError(t, err)
	require.NotNil(t, reloads)
	require.Equal(t, "Contact", form.Title)

	updated := []byte("title: Address\nfields:\n  - name: street\n")
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, os.WriteFile(path, updated, 0o600))
		select {
		case f := <-reloads:
			if f.Title == "Address" {
				require.Equal(t, []string{"street"}, f.Names())
				return
			}
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}

func TestOfferLatest_KeepsNewest(t *testing.T) {
	ch := make(chan config.Form, 1)
	offerLatest(ch, config.Form{Title: "one"})
	offerLatest(ch, config.Form{Title: "two"})

	require.Len(t, ch, 1)
	require.Equal(t, "two", (<-ch).Title)
}

func TestInitLogging_Disabled(t *testing.T) {
	t.Setenv("INLINEEDIT_DEBUG", "")
	original := debugFlag
	t.Cleanup(func() { debugFlag = original })
	debugFlag = false

	require.NoError(t, initLogging())
	require.Nil(t, logCleanup)
}

func TestInitLogging_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	originalDir, originalDebug := dataDir, debugFlag
	t.Cleanup(func() {
		dataDir, debugFlag = originalDir, originalDebug
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	})
	dataDir = dir
	debugFlag = true

	require.NoError(t, initLogging())
	require.NotNil(t, logCleanup)
	require.FileExists(t, filepath.Join(dir, ".inlineedit", "debug.log"))
}
