package cli

import (
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/minescope/bedrockver/pkg/errors"
)

func TestRootCommandStructure(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "bedrockver" {
		t.Errorf("root use = %q, want %q", root.Use, "bedrockver")
	}

	for _, name := range []string{"list", "serve", "completion"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root should register the %q subcommand", name)
		}
	}

	for _, flag := range []string{"preview", "json", "retries", "cooldown", "timeout", "endpoint", "config"} {
		if root.Flags().Lookup(flag) == nil {
			t.Errorf("root should define --%s", flag)
		}
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	var f fetchFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)

	if err := cmd.Flags().Set("retries", "5"); err != nil {
		t.Fatalf("set retries: %v", err)
	}
	if err := cmd.Flags().Set("cooldown", "1s"); err != nil {
		t.Fatalf("set cooldown: %v", err)
	}

	retries := 2
	cfg := &Config{
		Retries:  &retries,
		Cooldown: &duration{30 * time.Second},
		Timeout:  &duration{5 * time.Second},
		Endpoint: "https://mirror.example.com/links",
	}

	opts, err := f.apply(cmd, cfg)
	if err != nil {
		t.Fatalf("apply() error: %v", err)
	}

	// Explicitly set flags win over the config file
	if opts.Retries != 5 {
		t.Errorf("retries = %d, want the flag value 5", opts.Retries)
	}
	if opts.Cooldown != time.Second {
		t.Errorf("cooldown = %v, want the flag value 1s", opts.Cooldown)
	}

	// Untouched flags defer to the config file
	if opts.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want the config value 5s", opts.Timeout)
	}
	if opts.Endpoint != "https://mirror.example.com/links" {
		t.Errorf("endpoint = %q, want the config value", opts.Endpoint)
	}
}

func TestApplyRejectsBadEndpoint(t *testing.T) {
	var f fetchFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)

	if err := cmd.Flags().Set("endpoint", "ftp://mirror.example.com/links"); err != nil {
		t.Fatalf("set endpoint: %v", err)
	}

	_, err := f.apply(cmd, &Config{})
	if err == nil {
		t.Fatal("expected an endpoint validation error")
	}
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeInvalidInput)
	}
}

func TestChannelName(t *testing.T) {
	if got := channelName(false); got != "stable" {
		t.Errorf("channelName(false) = %q, want %q", got, "stable")
	}
	if got := channelName(true); got != "preview" {
		t.Errorf("channelName(true) = %q, want %q", got, "preview")
	}
}
