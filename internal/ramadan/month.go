package ramadan

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
)

// Hijri month numbers used by the detector.
const (
	Shaban  = 8
	Ramadan = 9
)

// months lists known spellings per month, canonical upstream spelling first.
var months = [][]string{
	1:  {"Muḥarram", "Muharram"},
	2:  {"Ṣafar", "Safar"},
	3:  {"Rabīʿ al-awwal", "Rabi al-Awwal", "Rabiul Awal", "Rabi' al-Awwal"},
	4:  {"Rabīʿ al-thānī", "Rabi al-Thani", "Rabi al-Akhir", "Rabiul Akhir", "Rabi' al-Thani"},
	5:  {"Jumādá al-ūlá", "Jumada al-Ula", "Jumada al-Awwal", "Jamadil Awal"},
	6:  {"Jumādá al-ākhirah", "Jumada al-Akhirah", "Jumada al-Thani", "Jamadil Akhir"},
	7:  {"Rajab"},
	8:  {"Shaʿbān", "Sha'ban", "Shaban", "Shaaban", "Syaaban"},
	9:  {"Ramaḍān", "Ramadan", "Ramadhan", "Ramazan", "Ramzan"},
	10: {"Shawwāl", "Shawwal", "Syawal"},
	11: {"Dhū al-Qaʿdah", "Dhu al-Qadah", "Dhul Qadah", "Zulkaedah"},
	12: {"Dhū al-Ḥijjah", "Dhu al-Hijjah", "Dhul Hijjah", "Zulhijjah"},
}

var (
	exact  = map[string]int{}
	folded = map[int][]string{}
)

func init() {
	for n, names := range months {
		for _, name := range names {
			exact[name] = n
			folded[n] = append(folded[n], fold(name))
		}
	}
}

// MonthNumber maps a Hijri month name to its number, 1 to 12. It tries an
// exact spelling, then a case and diacritic insensitive substring match,
// then prefix rules for Ramadan and Sha'ban. Anything else logs a warning
// and returns 0, which never counts as Ramadan.
func MonthNumber(name string) int {
	name = strings.TrimSpace(name)
	if n, ok := exact[name]; ok {
		return n
	}

	f := fold(name)
	if f != "" {
		for n := 1; n < len(months); n++ {
			for _, variant := range folded[n] {
				if strings.Contains(f, variant) {
					return n
				}
			}
		}

		switch {
		case strings.HasPrefix(f, "ram"):
			return Ramadan
		case strings.HasPrefix(f, "shab"), strings.HasPrefix(f, "shaab"), strings.HasPrefix(f, "syab"):
			return Shaban
		}
	}

	logger.Warn("unknown hijri month name", "name", name)
	return 0
}

// fold lowercases s, strips diacritics and drops everything but ASCII
// letters, so "Shaʿbān" and "sha'ban" both become "shaban".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(plain) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
