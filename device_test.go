package main

import (
	"reflect"
	"testing"
)

func TestParseDeviceList(t *testing.T) {
	out := "List of devices attached\n" +
		"* daemon not running; starting now at tcp:5037\n" +
		"* daemon started successfully\n" +
		"emulator-5554\tdevice\n" +
		"192.168.1.50:5555\toffline\n" +
		"\n"

	devices := parseDeviceList(out)
	want := []Device{
		{Serial: "emulator-5554", State: "device"},
		{Serial: "192.168.1.50:5555", State: "offline"},
	}
	if !reflect.DeepEqual(devices, want) {
		t.Errorf("parseDeviceList = %v, want %v", devices, want)
	}
}

func TestParseDeviceListEmpty(t *testing.T) {
	if devices := parseDeviceList("List of devices attached\n\n"); len(devices) != 0 {
		t.Errorf("Expected no devices, got %v", devices)
	}
}

func TestCustomCommandArgs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"devices -l", []string{"devices", "-l"}},
		{"shell pm list packages", []string{"shell", "pm list packages"}},
		{"connect 10.0.0.2:5555", []string{"connect", "10.0.0.2:5555"}},
	}
	for _, c := range cases {
		if got := customCommandArgs(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("customCommandArgs(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
