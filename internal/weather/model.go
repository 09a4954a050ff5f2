package weather

import (
	"errors"
	"time"
)

var (
	ErrUnavailable = errors.New("weather unavailable")
	ErrNoForecast  = errors.New("no forecast for requested time")
)

// Weather is the current condition at a point.
type Weather struct {
	TempC       float64 `json:"temp"`
	IsRain      bool    `json:"isRain"`
	IsCloudy    bool    `json:"isCloudy"`
	Code        int     `json:"code"`
	Description string  `json:"description"`
}

// HourlyForecast is one hour of the forecast.
type HourlyForecast struct {
	Time          time.Time `json:"time"`
	TempC         float64   `json:"temp"`
	RainChancePct int       `json:"rainChance"`
	IsRain        bool      `json:"isRain"`
	Code          int       `json:"code"`
	Description   string    `json:"description"`
}

// WMO weather interpretation codes, as reported by Open-Meteo.
func describe(code int) (desc string, rain, cloudy bool) {
	switch {
	case code == 0:
		return "derült", false, false
	case code == 1 || code == 2:
		return "részben felhős", false, false
	case code == 3:
		return "borult", false, true
	case code == 45 || code == 48:
		return "ködös", false, true
	case code >= 51 && code <= 57:
		return "szitálás", true, true
	case code >= 61 && code <= 67:
		return "eső", true, true
	case code >= 71 && code <= 77:
		return "havazás", false, true
	case code >= 80 && code <= 82:
		return "zápor", true, true
	case code >= 85 && code <= 86:
		return "hózápor", false, true
	case code >= 95:
		return "zivatar", true, true
	}
	return "ismeretlen", false, false
}

// FromCode builds a Weather from a temperature and WMO code.
func FromCode(tempC float64, code int) Weather {
	desc, rain, cloudy := describe(code)
	return Weather{TempC: tempC, IsRain: rain, IsCloudy: cloudy, Code: code, Description: desc}
}
