package metrics

import "fmt"

// Fixed metric names.
const (
	MetricReadingsTotal        = "meter_readings_total"
	MetricTankLevel            = "tank_level"
	MetricTankVolume           = "tank_volume"
	MetricTankAddedConsumption = "tank_added_consumption"
)

// Label names.
const (
	LabelTankName  = "tankName"
	LabelMeterName = "meterName"
	LabelBuilding  = "building"
	LabelTimestamp = "timestamp"
)

// MeterDeltaLabels is the label schema of per-meter delta gauges.
var MeterDeltaLabels = []string{LabelTimestamp}

// BuildingReadingLabels is the label schema of per-building reading gauges.
var BuildingReadingLabels = []string{LabelMeterName, LabelBuilding, LabelTimestamp}

// MeterDeltaName returns the gauge name for a high-tension meter.
func MeterDeltaName(meterName string) string {
	return "ht_energy_meter_reading_" + meterName
}

// MeterDeltaHelp returns the help text for a high-tension meter gauge.
func MeterDeltaHelp(meterName string) string {
	return fmt.Sprintf("Ht_Energy meter reading for %s in kWh", meterName)
}

// BuildingReadingName returns the gauge name for a building's meters.
func BuildingReadingName(building string) string {
	return building + "_energy_meter_reading"
}

// BuildingReadingHelp returns the help text for a building gauge.
func BuildingReadingHelp(building string) string {
	return fmt.Sprintf("%s Energy meter reading in kWh", building)
}
