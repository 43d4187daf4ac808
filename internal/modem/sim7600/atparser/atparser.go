package atparser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type GPSModeEnum string

const (
	GpsModeUnknown    GPSModeEnum = "-1"
	GpsModeOffline    GPSModeEnum = "0"
	GpsModeStandalone GPSModeEnum = "1"
	GpsModeUe         GPSModeEnum = "2"
	GpsModeAssisted   GPSModeEnum = "3"
)

const (
	HeaderCGPS       = "+CGPS:"
	HeaderCGPSInfo   = "+CGPSINFO:"
	HeaderCSQ        = "+CSQ:"
	HeaderHTTPAction = "+HTTPACTION:"
)

var (
	// ErrNoFix is returned for a well formed +CGPSINFO line without position
	ErrNoFix = errors.New("gps has no fix")
	// ErrNoHeader means the response did not contain the expected result line
	ErrNoHeader = errors.New("result line not found")
)

// Find returns the first line of a response starting with header
func Find(lines []string, header string) (string, error) {
	for _, l := range lines {
		if strings.HasPrefix(l, header) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoHeader, header)
}

// fields strips the header and splits the comma separated values
func fields(line string, header string) ([]string, error) {
	if !strings.HasPrefix(line, header) {
		return nil, fmt.Errorf("unknown header %v", line)
	}

	values := strings.Split(strings.TrimSpace(line[len(header):]), ",")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return values, nil
}

// GPSStatus Parses +CGPS: <on>,<mode> into the gps status
func GPSStatus(line string) (started bool, mode GPSModeEnum, err error) {
	values, err := fields(line, HeaderCGPS)
	if err != nil {
		return
	}

	if len(values) < 2 {
		err = fmt.Errorf("cant parse, input too short %v", line)
		return
	}

	switch values[0] {
	case "1":
		started = true
	case "0":
	default:
		err = fmt.Errorf("unknown gps status %v", line)
		return
	}

	switch GPSModeEnum(values[1]) {
	case GpsModeOffline, GpsModeStandalone, GpsModeUe, GpsModeAssisted:
		mode = GPSModeEnum(values[1])
	default:
		mode = GpsModeUnknown
		err = fmt.Errorf("unknown gps mode %v", line)
	}

	return
}

// GPSInfo is a decoded +CGPSINFO fix
type GPSInfo struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	// Altitude above sea level in meters
	Altitude float64 `json:"alt"`
	// Speed over ground in knots
	Speed  float64 `json:"speed"`
	Course float64 `json:"course"`
}

func (g GPSInfo) String() string {
	return fmt.Sprintf("GPSInfo(%s) lat: %f lon: %f alt: %f speed: %f",
		g.Time.Format(time.RFC3339), g.Latitude, g.Longitude, g.Altitude, g.Speed)
}

// Valid fixes always carry a timestamp
func (g GPSInfo) Valid() bool {
	return !g.Time.IsZero()
}

// degrees converts the NMEA style (d)ddmm.mmmm notation into decimal degrees
func degrees(value string, hemisphere string) (float64, error) {
	raw, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	deg := math.Floor(raw / 100)
	dec := deg + (raw-deg*100)/60

	switch hemisphere {
	case "N", "E":
	case "S", "W":
		dec = -dec
	default:
		return 0, fmt.Errorf("unknown hemisphere %q", hemisphere)
	}

	return dec, nil
}

// GPSInformation Parses
// +CGPSINFO: <lat>,<N/S>,<log>,<E/W>,<date>,<UTC time>,<alt>,<speed>,<course>
func GPSInformation(line string) (info GPSInfo, err error) {
	values, err := fields(line, HeaderCGPSInfo)
	if err != nil {
		return
	}

	if len(values) < 8 {
		err = fmt.Errorf("cant parse, input too short %v", line)
		return
	}

	// The modem reports ,,,,,,,, while searching
	if values[0] == "" {
		err = ErrNoFix
		return
	}

	if info.Latitude, err = degrees(values[0], values[1]); err != nil {
		return
	}
	if info.Longitude, err = degrees(values[2], values[3]); err != nil {
		return
	}

	// Fractional seconds are dropped, the fix rate is one per second anyway
	clock := values[5]
	if dot := strings.IndexByte(clock, '.'); dot >= 0 {
		clock = clock[:dot]
	}
	if info.Time, err = time.Parse("020106150405", values[4]+clock); err != nil {
		err = fmt.Errorf("bad gps timestamp %v: %w", line, err)
		return
	}

	if info.Altitude, err = strconv.ParseFloat(values[6], 64); err != nil {
		return
	}
	if info.Speed, err = strconv.ParseFloat(values[7], 64); err != nil {
		return
	}

	// Course is missing on some firmware versions
	if len(values) > 8 && values[8] != "" {
		info.Course, _ = strconv.ParseFloat(values[8], 64)
	}

	return
}

const (
	RSSIUnknown = 99
	BERUnknown  = 99
)

// Signal is a decoded +CSQ reply
type Signal struct {
	RSSI int `json:"rssi"`
	BER  int `json:"ber"`
	// DBm is nil if the modem does not know the signal strength
	DBm *int `json:"dbm,omitempty"`
}

// SignalQuality Parses +CSQ: <rssi>,<ber>
func SignalQuality(line string) (sig Signal, err error) {
	values, err := fields(line, HeaderCSQ)
	if err != nil {
		return
	}

	if len(values) != 2 {
		err = fmt.Errorf("cant parse, unexpected field count %v", line)
		return
	}

	if sig.RSSI, err = strconv.Atoi(values[0]); err != nil {
		return
	}
	if sig.BER, err = strconv.Atoi(values[1]); err != nil {
		return
	}

	var dbm int
	switch {
	case sig.RSSI >= 0 && sig.RSSI <= 31:
		dbm = -113 + 2*sig.RSSI
	case sig.RSSI >= 100 && sig.RSSI <= 191:
		// TD-SCDMA range
		dbm = -116 + sig.RSSI
	default:
		return
	}
	sig.DBm = &dbm

	return
}

// HTTPActionResult is the unsolicited +HTTPACTION report
type HTTPActionResult struct {
	Method int
	Status int
	Length int
}

// HTTPAction Parses +HTTPACTION: <method>,<status>,<datalen>
func HTTPAction(line string) (res HTTPActionResult, err error) {
	values, err := fields(line, HeaderHTTPAction)
	if err != nil {
		return
	}

	if len(values) != 3 {
		err = fmt.Errorf("cant parse, unexpected field count %v", line)
		return
	}

	if res.Method, err = strconv.Atoi(values[0]); err != nil {
		return
	}
	if res.Status, err = strconv.Atoi(values[1]); err != nil {
		return
	}
	res.Length, err = strconv.Atoi(values[2])

	return
}
