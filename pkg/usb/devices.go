package usb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/gousb"
)

type Device struct {
	Name      string
	VendorID  gousb.ID
	ProductID gousb.ID
}

func (d *Device) String() string {
	return fmt.Sprintf("%s pid: %s vid: %s", d.Name, d.ProductID.String(), d.VendorID.String())
}

var (
	// SupportedModems lists the usb compositions the sim7600 family enumerates with
	SupportedModems = []*Device{
		{
			VendorID:  0x1e0e,
			ProductID: 0x9001,
			Name:      "Simtech SIM7[5|6]00",
		},
		{
			VendorID:  0x1e0e,
			ProductID: 0x9011,
			Name:      "Simtech SIM7[5|6]00 RNDIS",
		},
	}
)

func FindSupportedDevice(vendorID gousb.ID, productID gousb.ID) (*Device, bool) {
	for _, device := range SupportedModems {
		if device.VendorID == vendorID && device.ProductID == productID {
			return device, true
		}
	}
	return nil, false
}

func ParseHexUINT16(str string) (uint16, error) {
	val, err := strconv.ParseUint(str, 16, 16)
	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// ParseProduct splits the udev PRODUCT value, e.g "1e0e/9001/318" VID/PID/REVISION
func ParseProduct(product string) (vid uint16, pid uint16, err error) {
	s := strings.Split(product, "/")
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("malformed product string %q", product)
	}

	if vid, err = ParseHexUINT16(s[0]); err != nil {
		return 0, 0, fmt.Errorf("could not parse hex vid %q: %w", s[0], err)
	}
	if pid, err = ParseHexUINT16(s[1]); err != nil {
		return 0, 0, fmt.Errorf("could not parse hex pid %q: %w", s[1], err)
	}

	return vid, pid, nil
}
