package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeSpace(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already Clean", "Beta LT Jacket", "Beta LT Jacket"},
		{"Leading And Trailing", "  Black Sapphire  ", "Black Sapphire"},
		{"Inner Runs", "Atom \n\t Hoody", "Atom Hoody"},
		{"Empty String", "", ""},
		{"Only Whitespace", " \n\t ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeSpace(tc.input)
			if result != tc.expected {
				t.Errorf("NormalizeSpace(%q) = %q; want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestCanonicalProductPath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain Handle", "/products/beta-lt-jacket", "/products/beta-lt-jacket"},
		{"Variant Id Segment", "/products/beta-lt-jacket/43210", "/products/beta-lt-jacket"},
		{"Query Params", "/products/beta-lt-jacket?variant=123", "/products/beta-lt-jacket"},
		{"Variant And Query", "/products/atom-hoody/99?ref=grid", "/products/atom-hoody"},
		{"Non Product Path", "/collections/arcteryx", "/collections/arcteryx"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := CanonicalProductPath(tc.input)
			if result != tc.expected {
				t.Errorf("CanonicalProductPath(%q) = %q; want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestHandleFromURL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Full URL", "https://enroute.run/products/beta-lt-jacket", "beta-lt-jacket"},
		{"With Variant Segment", "https://enroute.run/products/atom-hoody/43210", "atom-hoody"},
		{"No Products Segment", "https://enroute.run/collections/arcteryx", ""},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := HandleFromURL(tc.input)
			if result != tc.expected {
				t.Errorf("HandleFromURL(%q) = %q; want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestTitleFromHandle(t *testing.T) {
	if got := TitleFromHandle("beta-lt-jacket"); got != "beta lt jacket" {
		t.Errorf("TitleFromHandle = %q; want %q", got, "beta lt jacket")
	}
}

func TestSortedUnique(t *testing.T) {
	input := []string{"b", "a", "b", "c", "a"}
	expected := []string{"a", "b", "c"}
	if got := SortedUnique(input); !reflect.DeepEqual(got, expected) {
		t.Errorf("SortedUnique(%v) = %v; want %v", input, got, expected)
	}
}
