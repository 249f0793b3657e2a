package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	accept := []string{
		"shroud@team.gg",
		"coach.kim+scrims@esports.example.co.kr",
		"org-admin@sub.league.example",
		"ops@localhost",
		"  padded@team.gg  ",
	}
	reject := []string{
		"",
		"nobody",
		"player@",
		"@team.gg",
		".lead@team.gg",
		"lead.@team.gg",
		"two..dots@team.gg",
		"x@.team.gg",
		"x@team..gg",
		"Team Captain <cap@team.gg>",
		"cap tain@team.gg",
		"cap@team gg",
	}

	for _, s := range accept {
		if !IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = false", s)
		}
	}
	for _, s := range reject {
		if IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = true", s)
		}
	}
}
