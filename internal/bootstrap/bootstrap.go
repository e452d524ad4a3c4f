package bootstrap

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Reece236/StockMarketSim/internal/domain"
	"github.com/Reece236/StockMarketSim/internal/store"
)

// Params controls universe and population generation. When UniverseFile is
// set it takes precedence over random generation.
type Params struct {
	Instruments  int
	Traders      int
	InitialCash  float64
	UniverseFile string
}

// universeFile is the YAML shape of an explicit universe definition.
type universeFile struct {
	Instruments []struct {
		ID       string  `yaml:"id"`
		Price    float64 `yaml:"price"`
		Quantity int64   `yaml:"quantity"`
		Sector   string  `yaml:"sector"`
		Risk     float64 `yaml:"risk"`
	} `yaml:"instruments"`
	Traders struct {
		Count int     `yaml:"count"`
		Cash  float64 `yaml:"cash"`
	} `yaml:"traders"`
}

// Populate fills the registry and trader store, either from a YAML
// universe file or from random draws, and seeds every trader's private
// valuation noise. All randomness comes from rng so runs are deterministic
// given a seed. An empty resulting universe or population is fatal.
func Populate(reg *store.Registry, traders *store.TraderStore, p Params, rng *rand.Rand) error {
	if p.UniverseFile != "" {
		if err := populateFromFile(reg, traders, p.UniverseFile, rng); err != nil {
			return err
		}
	} else {
		if err := populateRandom(reg, traders, p, rng); err != nil {
			return err
		}
	}

	if reg.Count() == 0 {
		return domain.ErrEmptyUniverse
	}
	if traders.Count() == 0 {
		return domain.ErrNoTraders
	}

	seedNoise(reg, traders, rng)
	allocateFloat(reg, traders, rng)
	return nil
}

func populateRandom(reg *store.Registry, traders *store.TraderStore, p Params, rng *rand.Rand) error {
	for i := 0; i < p.Instruments; i++ {
		inst := domain.NewInstrument(
			fmt.Sprintf("RC-%02d", i+1),
			10+rng.Float64()*190,                // initial price in [10, 200)
			1000+int64(rng.Intn(9001)),          // outstanding shares in [1000, 10000]
			domain.Sectors[i%len(domain.Sectors)],
			rng.Float64(),
		)
		if err := reg.Add(inst); err != nil {
			return err
		}
	}
	for i := 0; i < p.Traders; i++ {
		t := domain.NewTrader(fmt.Sprintf("trader-%03d", i+1), p.InitialCash, rng.Float64())
		if err := traders.Add(t); err != nil {
			return err
		}
	}
	return nil
}

func populateFromFile(reg *store.Registry, traders *store.TraderStore, path string, rng *rand.Rand) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read universe file: %w", err)
	}
	var uf universeFile
	if err := yaml.Unmarshal(raw, &uf); err != nil {
		return fmt.Errorf("parse universe file: %w", err)
	}

	for _, entry := range uf.Instruments {
		if entry.ID == "" {
			return fmt.Errorf("universe file: instrument without id")
		}
		if entry.Risk < 0 || entry.Risk > 1 {
			return fmt.Errorf("universe file: instrument %s risk %v outside [0,1]", entry.ID, entry.Risk)
		}
		inst := domain.NewInstrument(entry.ID, entry.Price, entry.Quantity, domain.Sector(entry.Sector), entry.Risk)
		if err := reg.Add(inst); err != nil {
			return fmt.Errorf("universe file: %w", err)
		}
	}
	for i := 0; i < uf.Traders.Count; i++ {
		t := domain.NewTrader(fmt.Sprintf("trader-%03d", i+1), uf.Traders.Cash, rng.Float64())
		if err := traders.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// seedNoise draws each trader's private valuation noise per instrument:
// a Binomial(100, 0.5)/100 draw scaled by the instrument's risk
// coefficient, so noisier estimates attach to riskier instruments.
func seedNoise(reg *store.Registry, traders *store.TraderStore, rng *rand.Rand) {
	instruments := reg.List()
	for _, t := range traders.List() {
		for _, inst := range instruments {
			t.SeedNoise(inst.ID, binomial(rng, 100, 0.5)/100*inst.Risk)
		}
	}
}

// allocateFloat hands out roughly half of each instrument's unallocated
// float to random traders in random lots, so the population starts with
// holdings to offer. Shares held plus the remaining float always equals
// the outstanding count.
func allocateFloat(reg *store.Registry, traders *store.TraderStore, rng *rand.Rand) {
	population := traders.List()
	for _, inst := range reg.List() {
		target := inst.Available / 2
		for target > 0 {
			t := population[rng.Intn(len(population))]
			lot := 1 + rng.Int63n(target/4+1)
			if lot > target {
				lot = target
			}
			t.Positions[inst.ID] += lot
			inst.Available -= lot
			target -= lot
		}
	}
}

// binomial draws from Binomial(n, p) by summing Bernoulli trials. n is
// small and fixed, so the direct sum is fine.
func binomial(rng *rand.Rand, n int, p float64) float64 {
	var successes int
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			successes++
		}
	}
	return float64(successes)
}
