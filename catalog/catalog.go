// Package catalog holds the fixed set of environmental parameters tracked by the monitoring
// station. Every parameter is expected to have a column in the historical table and a persisted
// model artifact.
package catalog

import "errors"

var ErrUnknownParameter = errors.New("unknown parameter")

// Parameter is a single tracked environmental measurement.
type Parameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var parameters = []Parameter{
	{"Temperature (°C)", "Measured air temperature in degrees Celsius"},
	{"Humidity (%)", "Relative humidity as a percentage"},
	{"Light Resistance (Ω)", "Light intensity measured as resistance in ohms"},
	{"Sound Level (dB)", "Ambient sound level in decibels"},
	{"Moisture (%)", "Soil moisture level as a percentage"},
	{"Turbidity (NTU)", "Water clarity in nephelometric turbidity units"},
	{"pH Value", "Acidity or alkalinity of water"},
	{"DS18B20 Water (°C)", "Water temperature measured by a DS18B20 sensor in degrees Celsius"},
	{"DS18B20 Soil (°C)", "Soil temperature measured by a DS18B20 sensor in degrees Celsius"},
	{"MQ135 Ammonia (ppm)", "Ammonia concentration in parts per million"},
	{"MQ135 Benzene (ppm)", "Benzene concentration in parts per million"},
	{"MQ135 Ethanol (ppm)", "Ethanol concentration in parts per million"},
	{"MQ135 Smoke (ppm)", "Smoke concentration in parts per million"},
	{"MQ7 CO (ppm)", "Carbon monoxide concentration in parts per million"},
	{"MQ2 LPG (ppm)", "Liquefied petroleum gas concentration in parts per million"},
	{"MQ2 Methane (ppm)", "Methane concentration in parts per million"},
	{"MQ2 Propane (ppm)", "Propane concentration in parts per million"},
	{"MQ2 VOCs (ppm)", "Volatile organic compounds concentration in parts per million"},
}

// Catalog is an ordered, read-only set of parameters.
type Catalog struct {
	params []Parameter
	index  map[string]int
}

// Default returns the catalog of every sensor channel on the monitoring station.
func Default() *Catalog {
	return New(parameters)
}

// New creates a catalog from the given parameters, preserving their order. Later duplicates
// of a name are ignored.
func New(params []Parameter) *Catalog {
	c := &Catalog{
		params: make([]Parameter, 0, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for _, p := range params {
		if _, exists := c.index[p.Name]; exists {
			continue
		}
		c.index[p.Name] = len(c.params)
		c.params = append(c.params, p)
	}
	return c
}

// Names returns a copy of all parameter names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.params))
	for _, p := range c.params {
		names = append(names, p.Name)
	}
	return names
}

// Parameters returns a copy of all parameters in catalog order.
func (c *Catalog) Parameters() []Parameter {
	dst := make([]Parameter, len(c.params))
	copy(dst, c.params)
	return dst
}

func (c *Catalog) Contains(name string) bool {
	_, exists := c.index[name]
	return exists
}

// Get returns the parameter with the given name.
func (c *Catalog) Get(name string) (Parameter, error) {
	idx, exists := c.index[name]
	if !exists {
		return Parameter{}, ErrUnknownParameter
	}
	return c.params[idx], nil
}

func (c *Catalog) Len() int {
	return len(c.params)
}
