package i18n_test

import (
	"testing"

	"github.com/closerly/backend/internal/i18n"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "fr", i18n.Normalize("fr"))
	assert.Equal(t, "en", i18n.Normalize("en"))
	assert.Equal(t, "ar", i18n.Normalize("ar"))
	assert.Equal(t, "fr", i18n.Normalize(""))
	assert.Equal(t, "fr", i18n.Normalize("de"))
}

func TestT_FallsBackToFrench(t *testing.T) {
	fr := i18n.T("fr", i18n.MsgDuplicate)
	assert.NotEmpty(t, fr)
	assert.Equal(t, fr, i18n.T("unknown-lang", i18n.MsgDuplicate))
}

func TestT_AllKeysHaveAllLanguages(t *testing.T) {
	keys := []string{
		i18n.MsgVerificationFailed,
		i18n.MsgEmailRate,
		i18n.MsgIPRate,
		i18n.MsgDuplicate,
		i18n.MsgGlobalRate,
		i18n.MsgSubmitFailed,
		i18n.MsgInvalidRequest,
	}
	langs := []string{i18n.LangFR, i18n.LangEN, i18n.LangAR}

	for _, key := range keys {
		for _, lang := range langs {
			assert.NotEmpty(t, i18n.T(lang, key), "missing %s/%s", key, lang)
		}
	}
}

func TestT_UnknownKey(t *testing.T) {
	assert.Empty(t, i18n.T("fr", "no_such_key"))
}
