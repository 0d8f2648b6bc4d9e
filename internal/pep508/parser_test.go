package pep508

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Requirement
	}{
		{
			name: "bare name",
			raw:  "urllib3",
			want: Requirement{Name: "urllib3"},
		},
		{
			name: "single clause",
			raw:  "numpy>=1.20",
			want: Requirement{Name: "numpy", Specifier: ">=1.20"},
		},
		{
			name: "clause list with spaces",
			raw:  "numpy >= 1.20, < 2.0",
			want: Requirement{Name: "numpy", Specifier: ">=1.20,<2.0"},
		},
		{
			name: "parenthesized specifier",
			raw:  "requests (>=2.0)",
			want: Requirement{Name: "requests", Specifier: ">=2.0"},
		},
		{
			name: "extras",
			raw:  "requests[security,socks]>=2.0",
			want: Requirement{Name: "requests", Extras: []string{"security", "socks"}, Specifier: ">=2.0"},
		},
		{
			name: "environment marker",
			raw:  `tomli>=1.1.0; python_version < "3.11"`,
			want: Requirement{Name: "tomli", Specifier: ">=1.1.0", Marker: `python_version < "3.11"`},
		},
		{
			name: "marker without specifier",
			raw:  `colorama; sys_platform == "win32"`,
			want: Requirement{Name: "colorama", Marker: `sys_platform == "win32"`},
		},
		{
			name: "dotted and dashed name",
			raw:  "zope.interface-stubs~=5.4",
			want: Requirement{Name: "zope.interface-stubs", Specifier: "~=5.4"},
		},
		{
			name: "wildcard clause",
			raw:  "setuptools==65.*",
			want: Requirement{Name: "setuptools", Specifier: "==65.*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, *got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"leading operator", ">=1.0"},
		{"garbage clause", "numpy>>1.0"},
		{"direct url reference", "pip @ https://example.com/pip.whl"},
		{"unterminated name", "numpy-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.raw); !errors.Is(err, ErrInvalidRequirement) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidRequirement", tt.raw, err)
			}
		})
	}
}
