package models

import "time"

// SolarSnapshot is the inverter view shown on the dashboard.
type SolarSnapshot struct {
	PowerW       float64    `json:"power_w"`                 // current PV production
	ConsumptionW float64    `json:"consumption_w"`           // current house load
	BatterySOC   float64    `json:"battery_soc"`             // percent
	GridPowerW   *float64   `json:"grid_power_w,omitempty"`  // signed; nil if channel absent
	GridStatus   GridStatus `json:"grid_status"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SensorReading is one Shelly temperature/humidity sensor.
type SensorReading struct {
	DeviceID  string    `json:"device_id"`
	Name      string    `json:"name"`
	TempC     float64   `json:"temp_c"`
	Humidity  float64   `json:"humidity"`
	Battery   int       `json:"battery,omitempty"` // percent
	UpdatedAt time.Time `json:"updated_at"`
}

// StoveStatus mirrors the wood-stove JSON API exported by the Raspberry Pi.
type StoveStatus struct {
	StoveTempC float64   `json:"stove_temp_c"`
	FlueTempC  float64   `json:"flue_temp_c"`
	RoomTempC  float64   `json:"room_temp_c"`
	Burning    bool      `json:"burning"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ForecastDay is one day of the OpenWeather daily forecast.
type ForecastDay struct {
	Date     time.Time `json:"date"`
	TempMinC float64   `json:"temp_min_c"`
	TempMaxC float64   `json:"temp_max_c"`
	Humidity float64   `json:"humidity"` // percent
	RainMM   float64   `json:"rain_mm"`
	Clouds   float64   `json:"clouds"` // percent cover
}

// LaundryAdvice is the advisor's pick for the best day to hang laundry outside.
type LaundryAdvice struct {
	BestDay   time.Time `json:"best_day"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Dashboard aggregates every section the UI renders. A section that could not
// be fetched is nil with the failure recorded in Errors under its name.
type Dashboard struct {
	Solar   *SolarSnapshot    `json:"solar,omitempty"`
	Sensors []SensorReading   `json:"sensors,omitempty"`
	Stove   *StoveStatus      `json:"stove,omitempty"`
	Weather []ForecastDay     `json:"weather,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	TakenAt time.Time         `json:"taken_at"`
}

// Reading is one persisted history row, sampled by the recorder for charts.
type Reading struct {
	ID         string     `json:"id"`
	TakenAt    time.Time  `json:"taken_at"`
	SolarW     float64    `json:"solar_w"`
	GridW      *float64   `json:"grid_w,omitempty"`
	GridStatus GridStatus `json:"grid_status"`
	StoveC     *float64   `json:"stove_c,omitempty"`
	OutdoorC   *float64   `json:"outdoor_c,omitempty"`
}
