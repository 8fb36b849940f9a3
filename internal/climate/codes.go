package climate

import "strconv"

// CodeInfo is the display form of a WMO weather code in one language.
type CodeInfo struct {
	Label string
	Icon  string
}

// CodeTable maps WMO weather interpretation codes to localized condition
// labels and icon identifiers. Tables are built once at startup and never
// mutated.
type CodeTable struct {
	byLang map[string]map[int]CodeInfo
}

// NewCodeTable returns the built-in table covering en and ru.
func NewCodeTable() *CodeTable {
	return &CodeTable{byLang: wmoCodes}
}

// Lookup resolves a WMO code for the given language. Unknown languages fall
// back to English; unknown codes get a numeric label and the clear-sky icon.
func (t *CodeTable) Lookup(code int, lang string) CodeInfo {
	table, ok := t.byLang[lang]
	if !ok {
		table = t.byLang["en"]
	}
	if info, ok := table[code]; ok {
		return info
	}
	return CodeInfo{Label: "code " + strconv.Itoa(code), Icon: "01d"}
}

var wmoCodes = map[string]map[int]CodeInfo{
	"en": {
		0:  {"Clear sky", "01d"},
		1:  {"Mainly clear", "02d"},
		2:  {"Partly cloudy", "03d"},
		3:  {"Overcast", "04d"},
		45: {"Fog", "50d"},
		48: {"Depositing rime fog", "50d"},
		51: {"Light drizzle", "09d"},
		53: {"Moderate drizzle", "09d"},
		55: {"Dense drizzle", "09d"},
		61: {"Slight rain", "10d"},
		63: {"Moderate rain", "10d"},
		65: {"Heavy rain", "10d"},
		66: {"Freezing rain", "13d"},
		67: {"Heavy freezing rain", "13d"},
		71: {"Slight snow fall", "13d"},
		73: {"Moderate snow fall", "13d"},
		75: {"Heavy snow fall", "13d"},
		77: {"Snow grains", "13d"},
		80: {"Slight rain showers", "09d"},
		81: {"Moderate rain showers", "09d"},
		82: {"Violent rain showers", "09d"},
		85: {"Snow showers", "13d"},
		86: {"Heavy snow showers", "13d"},
		95: {"Thunderstorm", "11d"},
		96: {"Thunderstorm with hail", "11d"},
		99: {"Thunderstorm with heavy hail", "11d"},
	},
	"ru": {
		0:  {"Ясно", "01d"},
		1:  {"Преимущественно ясно", "02d"},
		2:  {"Переменная облачность", "03d"},
		3:  {"Пасмурно", "04d"},
		45: {"Туман", "50d"},
		48: {"Изморозь", "50d"},
		51: {"Лёгкая морось", "09d"},
		53: {"Умеренная морось", "09d"},
		55: {"Сильная морось", "09d"},
		61: {"Небольшой дождь", "10d"},
		63: {"Умеренный дождь", "10d"},
		65: {"Сильный дождь", "10d"},
		66: {"Ледяной дождь", "13d"},
		67: {"Сильный ледяной дождь", "13d"},
		71: {"Небольшой снег", "13d"},
		73: {"Умеренный снег", "13d"},
		75: {"Сильный снег", "13d"},
		77: {"Снежные зёрна", "13d"},
		80: {"Лёгкий ливень", "09d"},
		81: {"Умеренный ливень", "09d"},
		82: {"Сильный ливень", "09d"},
		85: {"Снегопад", "13d"},
		86: {"Сильный снегопад", "13d"},
		95: {"Гроза", "11d"},
		96: {"Гроза с градом", "11d"},
		99: {"Гроза с сильным градом", "11d"},
	},
}
