package main

import "testing"

func TestStatusWhenPortalStopped(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "status")
	requireContains(t, out, "Portal is not running")

	_, _, err := runCLI(t, []string{"reload"}, env.configPath)
	if err == nil {
		t.Fatal("expected reload to fail without a portal")
	}
	requireContains(t, err.Error(), "vidcat serve")
}
