package service

import (
	"errors"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "  gaming   laptops ", want: "Gaming Laptops"},
		{input: "USB-C hubs", want: "Usb-c Hubs"},
		{input: "électronique", want: "Électronique"},
		{input: "", want: ""},
	}
	for _, tc := range cases {
		if got := normalizeName(tc.input); got != tc.want {
			t.Fatalf("normalizeName(%q) want %q got %q", tc.input, tc.want, got)
		}
	}
}

func TestNormalizeAndSlugifyUniqueBase(t *testing.T) {
	name, slugValue, err := normalizeAndSlugify("gaming laptops", func(string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Gaming Laptops" {
		t.Fatalf("name want Gaming Laptops got %s", name)
	}
	if slugValue != "gaming-laptops" {
		t.Fatalf("slug want gaming-laptops got %s", slugValue)
	}
}

func TestNormalizeAndSlugifyCollisionSuffix(t *testing.T) {
	taken := map[string]bool{
		"gaming-laptops":   true,
		"gaming-laptops-2": true,
	}
	_, slugValue, err := normalizeAndSlugify("Gaming Laptops", func(candidate string) (bool, error) {
		return taken[candidate], nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slugValue != "gaming-laptops-3" {
		t.Fatalf("slug want gaming-laptops-3 got %s", slugValue)
	}
}

func TestNormalizeAndSlugifyExhausted(t *testing.T) {
	attempts := 0
	_, _, err := normalizeAndSlugify("popular", func(string) (bool, error) {
		attempts++
		return true, nil
	})
	if !errors.Is(err, ErrSlugExhausted) {
		t.Fatalf("want ErrSlugExhausted got %v", err)
	}
	if attempts != maxSlugAttempts {
		t.Fatalf("attempts want %d got %d", maxSlugAttempts, attempts)
	}
}

func TestNormalizeAndSlugifyEmptyName(t *testing.T) {
	if _, _, err := normalizeAndSlugify("   ", func(string) (bool, error) {
		return false, nil
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput got %v", err)
	}
}
