package testutil

import "testing"

// Given, When and Then name nested subtests so scenario output reads as
// "Given a stored person/When the owner deletes it/Then it is gone".
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
