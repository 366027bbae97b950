package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlausibleModel(t *testing.T) {
	require.Equal(t, "SM58", PlausibleModel("SM58"))
	require.Equal(t, "AT2020", PlausibleModel("  AT2020 "))
	require.Empty(t, PlausibleModel("ditiontype"))
	require.Empty(t, PlausibleModel("EditionType"))
	require.Empty(t, PlausibleModel("x"))
	require.Empty(t, PlausibleModel("this is clearly a sentence and not a model number"))
	require.Equal(t, "UMC204HD-EU-BLACK-EDITION-LONGNAME", PlausibleModel("UMC204HD-EU-BLACK-EDITION-LONGNAME"))
}

func TestCleanGTIN(t *testing.T) {
	require.Equal(t, "8717473558298", CleanGTIN("8717473558298"))
	require.Equal(t, "8717473558298", CleanGTIN("EAN: 8717-4735-58298"))
	require.Equal(t, "12345678", CleanGTIN("12345678"))
	require.Empty(t, CleanGTIN("1234567"))
	require.Empty(t, CleanGTIN("123456789012345"))
	require.Empty(t, CleanGTIN("geen ean"))
}

func TestCanonicalName(t *testing.T) {
	t.Run("brand title model", func(t *testing.T) {
		got := CanonicalName("Shure", "Shure SM58 Vocal Microphone", "SM58")
		require.Equal(t, "shure shure sm58 vocal microphone sm58", got)
	})

	t.Run("punctuation collapses", func(t *testing.T) {
		got := CanonicalName("Røde", "NT1-A (5th Gen)", "")
		require.Equal(t, "r de nt1 a 5th gen", got)
	})

	t.Run("title only", func(t *testing.T) {
		require.Equal(t, "beyerdynamic dt 770 pro", CanonicalName("", "Beyerdynamic DT 770 Pro", ""))
	})

	t.Run("empty when nothing given", func(t *testing.T) {
		require.Empty(t, CanonicalName("", "", ""))
	})
}
