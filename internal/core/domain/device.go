package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	lowBatteryThreshold = 10
	defaultBatteryLevel = 100
)

type Connectivity string

const (
	ConnectivityOK          Connectivity = "OK"
	ConnectivityUnreachable Connectivity = "UNREACHABLE"
)

// Scalar holds a JSON string, number or bool as text. The backend is not
// consistent about quoting its flags.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(strings.TrimSpace(string(b)))
	return nil
}

// Codecs is the device codec field, sent either as "h264,h265" or as a list.
type Codecs []string

func (c *Codecs) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*c = nil
		return nil
	}
	*c = Codecs{s}
	return nil
}

func (c Codecs) Contains(codec string) bool {
	for _, v := range c {
		if strings.Contains(v, codec) {
			return true
		}
	}
	return false
}

// Device is an entry of the backend's platform linked device list.
type Device struct {
	SerialNumber     string `json:"serialNumber"`
	DeviceName       string `json:"deviceName"`
	ModelNo          string `json:"modelNo"`
	DisplayModelNo   string `json:"displayModelNo"`
	NewestFirmwareID string `json:"newestFirmwareId"`
	DisplayGitSha    string `json:"displayGitSha"`
	MacAddress       string `json:"macAddress"`
	Codec            Codecs `json:"codec"`
}

func (d Device) SupportsH264() bool {
	return len(d.Codec) == 0 || d.Codec.Contains("h264")
}

func (d Device) IsDoorbell() bool {
	return strings.HasPrefix(d.ModelNo, "DB")
}

func (d Device) Model() string {
	if d.DisplayModelNo != "" {
		return d.DisplayModelNo
	}
	return d.ModelNo
}

func FilterH264(devices []Device) []Device {
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.SupportsH264() {
			out = append(out, d)
		}
	}
	return out
}

// DeviceStatus is the raw state returned by selectsingledevice.
type DeviceStatus struct {
	SerialNumber string `json:"serialNumber"`
	Online       Scalar `json:"online"`
	DeviceStatus Scalar `json:"deviceStatus"`
	BatteryLevel Scalar `json:"batteryLevel"`
}

func (s DeviceStatus) State() DeviceState {
	connectivity := ConnectivityOK
	if s.Online == "0" || s.DeviceStatus == "3" {
		connectivity = ConnectivityUnreachable
	}

	level := defaultBatteryLevel
	if s.BatteryLevel != "" {
		if f, err := strconv.ParseFloat(string(s.BatteryLevel), 64); err == nil {
			level = int(f)
		}
	}

	return DeviceState{Connectivity: connectivity, BatteryLevel: level}
}

type DeviceState struct {
	Connectivity Connectivity
	// -1 means the device does not report a battery
	BatteryLevel int
}

func (s DeviceState) Reachable() bool {
	return s.Connectivity == ConnectivityOK
}

func (s DeviceState) LowBattery() bool {
	return s.BatteryLevel >= 0 && s.BatteryLevel < lowBatteryThreshold
}

type BatteryHealth struct {
	State   string   `json:"state"`
	Reasons []string `json:"reasons,omitempty"`
}

func (s DeviceState) Health() BatteryHealth {
	if s.LowBattery() {
		return BatteryHealth{State: "WARNING", Reasons: []string{"LOW_CHARGE"}}
	}
	return BatteryHealth{State: "OK"}
}
