/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"strings"
	"testing"
)

func TestRegistry(t *testing.T) {
	reg := New()
	reg.RegisterFunc("echo", func(ctx context.Context, in string) (string, error) {
		return in, nil
	})

	h, err := reg.Get("echo")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	out, err := h.Invoke(context.Background(), []byte(`"hi"`))
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if strings.TrimSpace(string(out)) != `"hi"` {
		t.Fatalf("unexpected output %s", out)
	}

	if _, err := reg.Get("missing"); err == nil {
		t.Fatal("Expected error for unknown handler")
	}

	if names := reg.Names(); len(names) != 1 || names[0] != "echo" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	reg := New()
	reg.RegisterFunc("a", func() error { return nil })

	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on duplicate registration")
		}
	}()
	reg.RegisterFunc("a", func() error { return nil })
}
