package main

import (
	"reflect"
	"testing"
)

func TestMaxDimension(t *testing.T) {
	cases := map[string]int{
		"1280x720":  1280,
		"720x1280":  1280,
		"1080X1920": 1920,
		"":          0,
		"wide":      0,
		"800x":      0,
		"0x0":       0,
	}
	for in, want := range cases {
		if got := maxDimension(in); got != want {
			t.Errorf("maxDimension(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestMirrorArgs(t *testing.T) {
	args := mirrorArgs(MirrorConfig{Resolution: "1280x720", MaxFps: 60})
	want := []string{"-m", "1280", "--max-fps", "60"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("mirrorArgs = %v, want %v", args, want)
	}

	if args := mirrorArgs(MirrorConfig{}); len(args) != 0 {
		t.Errorf("Expected no args for default config, got %v", args)
	}
}

func TestNewDisplayArgs(t *testing.T) {
	cases := []struct {
		config MirrorConfig
		want   []string
	}{
		{MirrorConfig{Resolution: "1280x720", Dpi: 240}, []string{"--new-display=1280x720/240"}},
		{MirrorConfig{Resolution: "1280x720"}, []string{"--new-display=1280x720"}},
		{MirrorConfig{Dpi: 160}, []string{"--new-display=/160"}},
		{MirrorConfig{}, []string{"--new-display"}},
		{MirrorConfig{MaxFps: 30}, []string{"--new-display", "--max-fps", "30"}},
	}
	for _, c := range cases {
		if got := newDisplayArgs(c.config); !reflect.DeepEqual(got, c.want) {
			t.Errorf("newDisplayArgs(%+v) = %v, want %v", c.config, got, c.want)
		}
	}
}
