package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Bogdan-Zinovij/pzks/core"
	"github.com/Bogdan-Zinovij/pzks/program"
)

// UnitSpec declares one calculation unit of the pool.
type UnitSpec struct {
	Name     string           `yaml:"name"`
	Operator program.Operator `yaml:"operator"`
}

// StoreSpec configures the shared store.
type StoreSpec struct {
	// ThrottledReadConsumesPort makes the read that returns only one of two
	// computed operands take the port slot.
	ThrottledReadConsumesPort bool `yaml:"throttled_read_consumes_port"`
}

// Platform describes the vector system a tree is executed on.
type Platform struct {
	Mode    core.Mode         `yaml:"mode"`
	Units   []UnitSpec        `yaml:"units"`
	Latency core.LatencyTable `yaml:"latency"`
	Store   StoreSpec         `yaml:"store"`
}

// DefaultParallelPlatform returns the reference pool: two adders, one
// subtractor, one multiplier and one divider.
func DefaultParallelPlatform() *Platform {
	return &Platform{
		Mode: core.Parallel,
		Units: []UnitSpec{
			{Name: "P[+] 1", Operator: program.Add},
			{Name: "P[+] 2", Operator: program.Add},
			{Name: "P[-] 1", Operator: program.Sub},
			{Name: "P[*] 1", Operator: program.Mul},
			{Name: "P[/] 1", Operator: program.Div},
		},
		Latency: core.DefaultLatencyTable(),
	}
}

// SequentialPlatform returns the single reconfigurable unit used as the
// speedup baseline.
func SequentialPlatform() *Platform {
	return DefaultParallelPlatform().Sequential()
}

// Sequential derives the baseline platform that shares the latencies and
// store settings of p.
func (p *Platform) Sequential() *Platform {
	return &Platform{
		Mode:    core.Sequential,
		Units:   []UnitSpec{{Name: "P[_] 1", Operator: program.Add}},
		Latency: p.Latency.Clone(),
		Store:   p.Store,
	}
}

// LoadConfig loads a Platform from a YAML file. Fields missing from the file
// keep the values of the default parallel platform.
func LoadConfig(path string) (*Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform config file: %w", err)
	}

	p := DefaultParallelPlatform()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse platform config: %w", err)
	}

	return p, nil
}

// SaveConfig writes the Platform to a YAML file.
func (p *Platform) SaveConfig(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize platform config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write platform config file: %w", err)
	}

	return nil
}

// Validate checks that the platform can run.
func (p *Platform) Validate() error {
	if p.Mode != core.Parallel && p.Mode != core.Sequential {
		return fmt.Errorf("mode must be %q or %q, got %q", core.Parallel, core.Sequential, p.Mode)
	}

	if len(p.Units) == 0 {
		return fmt.Errorf("platform has no units")
	}

	if p.Mode == core.Sequential && len(p.Units) != 1 {
		return fmt.Errorf("sequential platform must have exactly one unit, got %d", len(p.Units))
	}

	for _, op := range program.Operators() {
		if _, ok := p.Latency.Cycles(op); !ok {
			return fmt.Errorf("latency of %s must be > 0", op)
		}
	}

	names := make(map[string]bool)
	for _, u := range p.Units {
		if u.Name == "" {
			return fmt.Errorf("unit without a name")
		}

		if names[u.Name] {
			return fmt.Errorf("duplicate unit name %q", u.Name)
		}
		names[u.Name] = true

		if _, ok := program.ParseOperator(string(u.Operator)); !ok {
			return fmt.Errorf("unit %s has unknown operator %q", u.Name, u.Operator)
		}
	}

	return nil
}

// Supports reports whether some unit can run op.
func (p *Platform) Supports(op program.Operator) bool {
	if p.Mode == core.Sequential {
		return len(p.Units) > 0
	}

	for _, u := range p.Units {
		if u.Operator == op {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the platform.
func (p *Platform) Clone() *Platform {
	return &Platform{
		Mode:    p.Mode,
		Units:   append([]UnitSpec(nil), p.Units...),
		Latency: p.Latency.Clone(),
		Store:   p.Store,
	}
}

// Environment variables overriding operator latencies.
const (
	EnvLatencyAdd = "EXPRSIM_LATENCY_ADD"
	EnvLatencySub = "EXPRSIM_LATENCY_SUB"
	EnvLatencyMul = "EXPRSIM_LATENCY_MUL"
	EnvLatencyDiv = "EXPRSIM_LATENCY_DIV"
)

// ApplyEnv overrides latencies with the EXPRSIM_LATENCY_* variables.
// Unset or unparsable variables leave the current value in place.
func (p *Platform) ApplyEnv() {
	vars := map[program.Operator]string{
		program.Add: EnvLatencyAdd,
		program.Sub: EnvLatencySub,
		program.Mul: EnvLatencyMul,
		program.Div: EnvLatencyDiv,
	}

	if p.Latency == nil {
		p.Latency = core.LatencyTable{}
	}

	for op, key := range vars {
		p.Latency[op] = getEnvInt(key, p.Latency[op])
	}
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	v, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return v
}
