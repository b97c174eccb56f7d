package scan

import "strings"

// Camera manufacturers keyed by MAC OUI (first three octets). The tables are
// plain data so new vendor blocks can be added without touching probe logic.
//
// 9C:8E:CD is registered hardware shared by Reolink and Amcrest; the entry
// carries Amcrest, matching the vendor most commonly seen on that block.
var cameraOUI = map[string]string{
	// Hikvision
	"A0:CF:5B": "Hikvision", "C0:56:E3": "Hikvision", "54:C4:15": "Hikvision",
	"44:19:B6": "Hikvision", "18:68:CB": "Hikvision", "BC:AD:28": "Hikvision",
	"28:57:BE": "Hikvision", "C4:2F:90": "Hikvision", "4C:BD:8F": "Hikvision",
	// Dahua
	"3C:EF:8C": "Dahua", "90:02:A9": "Dahua", "E0:50:8B": "Dahua",
	"4C:11:BF": "Dahua", "A0:BD:1D": "Dahua", "40:F4:FD": "Dahua",
	// Axis
	"00:40:8C": "Axis", "AC:CC:8E": "Axis", "B8:A4:4F": "Axis",
	// Hanwha/Samsung
	"00:09:18": "Hanwha", "00:16:6C": "Samsung", "00:1A:B6": "Samsung",
	// Vivotek
	"00:02:D1": "Vivotek", "00:22:F7": "Vivotek",
	// Bosch
	"00:04:13": "Bosch", "00:07:5F": "Bosch",
	// Panasonic
	"00:80:F0": "Panasonic", "00:B0:C7": "Panasonic", "04:20:9A": "Panasonic",
	// Sony
	"00:04:1F": "Sony", "00:13:A9": "Sony",
	// Uniview
	"24:24:05": "Uniview", "24:28:FD": "Uniview",
	// Reolink
	"EC:71:DB": "Reolink",
	// Amcrest
	"9C:8E:CD": "Amcrest",
	// Foscam
	"00:62:6E": "Foscam", "C0:F6:C2": "Foscam",
	// TP-Link
	"50:C7:BF": "TP-Link", "60:32:B1": "TP-Link",
	// Ubiquiti
	"24:A4:3C": "Ubiquiti", "80:2A:A8": "Ubiquiti", "FC:EC:DA": "Ubiquiti",
	// Turing
	"7C:D9:A0": "Turing",
}

// Network infrastructure vendors keyed by MAC OUI. Some blocks also appear
// in cameraOUI (shared reference hardware); Classify checks the camera table
// first so those resolve as cameras.
var infrastructureOUI = map[string]string{
	// Cisco
	"00:00:0C": "Cisco", "00:1B:D4": "Cisco", "00:26:CB": "Cisco",
	// Ubiquiti
	"24:A4:3C": "Ubiquiti", "80:2A:A8": "Ubiquiti", "FC:EC:DA": "Ubiquiti",
	"74:83:C2": "Ubiquiti", "F0:9F:C2": "Ubiquiti",
	// Netgear
	"00:14:6C": "Netgear", "00:1F:33": "Netgear",
	// TP-Link
	"50:C7:BF": "TP-Link", "60:32:B1": "TP-Link",
	// Aruba
	"00:0B:86": "Aruba", "24:DE:C6": "Aruba",
	// Meraki
	"00:18:0A": "Meraki", "AC:17:C8": "Meraki",
}

// NormalizeMAC converts a MAC address to the canonical form used throughout
// the scanner: colon-separated uppercase hex pairs.
func NormalizeMAC(mac string) string {
	return strings.ToUpper(strings.ReplaceAll(mac, "-", ":"))
}

// Classify looks up the manufacturer and device type for a MAC address by
// its OUI. The camera table wins over the infrastructure table when a block
// appears in both. Returns empty values when the OUI is in neither table so
// the caller can fall back to port-based heuristics.
func Classify(mac string) (string, DeviceType) {
	if len(mac) < 8 {
		return "", ""
	}

	oui := NormalizeMAC(mac)[:8]
	if manufacturer, ok := cameraOUI[oui]; ok {
		return manufacturer, DeviceTypeCamera
	}
	if manufacturer, ok := infrastructureOUI[oui]; ok {
		return manufacturer, DeviceTypeInfrastructure
	}
	return "", ""
}
