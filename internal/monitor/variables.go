package monitor

import "fmt"

// Page selects what the display shows. Pages below PageAll show the graph of
// the variable with the same index; PageAll shows every variable at once.
type Page int

const (
	PageTemperature Page = iota
	PagePressure
	PageHumidity
	PageLight
	PageOxidised
	PageReduced
	PageNH3
	PagePM1
	PagePM25
	PagePM10
	PageAll

	pageCount
)

// NumVariables is the number of sensed variables, one page each.
const NumVariables = int(PageAll)

// Next returns the page after p, wrapping back to the first variable.
func (p Page) Next() Page {
	return (p + 1) % pageCount
}

// Variable reports the variable index shown by p, or false for PageAll.
func (p Page) Variable() (int, bool) {
	if p < 0 || p >= PageAll {
		return 0, false
	}
	return int(p), true
}

func (p Page) String() string {
	if i, ok := p.Variable(); ok {
		return Variables[i].Name
	}
	if p == PageAll {
		return "all"
	}
	return fmt.Sprintf("Page(%d)", int(p))
}

// Variable describes one sensed quantity.
//
// Limits are four non-decreasing warning boundaries: dangerously low, low,
// high, dangerously high. A limit of -1 on a quantity that is never negative
// always counts as exceeded, which folds the low bands away.
type Variable struct {
	Name   string
	Unit   string
	Limits [4]float64
}

// Short returns the first four characters of the name, as shown on screen.
func (v Variable) Short() string {
	if len(v.Name) <= 4 {
		return v.Name
	}
	return v.Name[:4]
}

// Label formats a reading the way it is drawn and logged, e.g. "temp: 21.4 C".
func (v Variable) Label(value float64) string {
	return fmt.Sprintf("%s: %.1f %s", v.Short(), value, v.Unit)
}

// Variables lists the sensed quantities in page order.
var Variables = [NumVariables]Variable{
	{Name: "temperature", Unit: "C", Limits: [4]float64{4, 18, 28, 35}},
	{Name: "pressure", Unit: "hPa", Limits: [4]float64{250, 650, 1013.25, 1015}},
	{Name: "humidity", Unit: "%", Limits: [4]float64{20, 30, 60, 70}},
	{Name: "light", Unit: "Lux", Limits: [4]float64{-1, -1, 30000, 100000}},
	{Name: "oxidised", Unit: "kO", Limits: [4]float64{-1, -1, 40, 50}},
	{Name: "reduced", Unit: "kO", Limits: [4]float64{-1, -1, 450, 550}},
	{Name: "nh3", Unit: "kO", Limits: [4]float64{-1, -1, 200, 300}},
	{Name: "pm1", Unit: "ug/m3", Limits: [4]float64{-1, -1, 50, 100}},
	{Name: "pm25", Unit: "ug/m3", Limits: [4]float64{-1, -1, 50, 100}},
	{Name: "pm10", Unit: "ug/m3", Limits: [4]float64{-1, -1, 50, 100}},
}

// VariableIndex returns the index of the variable with the given name.
func VariableIndex(name string) (int, bool) {
	for i, v := range Variables {
		if v.Name == name {
			return i, true
		}
	}
	return 0, false
}
