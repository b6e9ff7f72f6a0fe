package db

import "testing"

func TestValidAppPlatform(t *testing.T) {
	for _, p := range AppPlatforms {
		if !ValidAppPlatform(p) {
			t.Errorf("platform %q must be valid", p)
		}
	}
	for _, p := range []string{"", "symbian", "IOS", "android "} {
		if ValidAppPlatform(p) {
			t.Errorf("platform %q must be rejected", p)
		}
	}
}
