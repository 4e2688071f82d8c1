package domain

type Weekday string

var Weekdays = []Weekday{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func IsWeekday(s string) bool {
	for _, d := range Weekdays {
		if string(d) == s {
			return true
		}
	}
	return false
}

// StationDailyConfig 是某个星期几的工位展示配置，VisibleStationIDs 中的每一个 ID 都必须出现在 StationOrder 中
type StationDailyConfig struct {
	Weekday           Weekday  `json:"weekday"`
	VisibleStationIDs []string `json:"visibleStationIDs"`
	StationOrder      []string `json:"stationOrder"`
}

func (c StationDailyConfig) Clone() StationDailyConfig {
	return StationDailyConfig{
		Weekday:           c.Weekday,
		VisibleStationIDs: append([]string{}, c.VisibleStationIDs...),
		StationOrder:      append([]string{}, c.StationOrder...),
	}
}
