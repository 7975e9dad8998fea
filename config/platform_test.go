package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Bogdan-Zinovij/pzks/config"
	"github.com/Bogdan-Zinovij/pzks/core"
	"github.com/Bogdan-Zinovij/pzks/program"
)

var _ = Describe("Platform", func() {
	Describe("Defaults", func() {
		It("should declare the reference parallel pool", func() {
			p := config.DefaultParallelPlatform()

			Expect(p.Mode).To(Equal(core.Parallel))
			Expect(p.Units).To(HaveLen(5))
			Expect(p.Units[1]).To(Equal(config.UnitSpec{Name: "P[+] 2", Operator: program.Add}))
			Expect(p.Latency).To(Equal(core.LatencyTable{
				program.Add: 2, program.Sub: 3, program.Mul: 4, program.Div: 8,
			}))
			Expect(p.Validate()).To(Succeed())
		})

		It("should derive a one-unit sequential platform", func() {
			p := config.SequentialPlatform()

			Expect(p.Mode).To(Equal(core.Sequential))
			Expect(p.Units).To(HaveLen(1))
			Expect(p.Supports(program.Div)).To(BeTrue())
			Expect(p.Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		var p *config.Platform

		BeforeEach(func() {
			p = config.DefaultParallelPlatform()
		})

		It("should reject a zero latency", func() {
			p.Latency[program.Mul] = 0
			Expect(p.Validate()).To(MatchError(ContainSubstring("latency of *")))
		})

		It("should reject duplicate unit names", func() {
			p.Units[1].Name = p.Units[0].Name
			Expect(p.Validate()).To(MatchError(ContainSubstring("duplicate")))
		})

		It("should reject unknown operators", func() {
			p.Units[0].Operator = "%"
			Expect(p.Validate()).To(HaveOccurred())
		})

		It("should reject an unknown mode", func() {
			p.Mode = "vliw"
			Expect(p.Validate()).To(HaveOccurred())
		})

		It("should reject a sequential platform with many units", func() {
			p.Mode = core.Sequential
			Expect(p.Validate()).To(MatchError(ContainSubstring("exactly one unit")))
		})
	})

	It("should report which operators the pool supports", func() {
		p := config.DefaultParallelPlatform()
		p.Units = p.Units[:2]

		Expect(p.Supports(program.Add)).To(BeTrue())
		Expect(p.Supports(program.Div)).To(BeFalse())
	})

	It("should deep copy on Clone", func() {
		p := config.DefaultParallelPlatform()
		c := p.Clone()
		c.Latency[program.Add] = 9
		c.Units[0].Name = "changed"

		Expect(p.Latency[program.Add]).To(Equal(2))
		Expect(p.Units[0].Name).To(Equal("P[+] 1"))
	})

	Describe("Files", func() {
		It("should load a YAML file over the defaults", func() {
			p, err := config.LoadConfig("testdata/platform.yaml")

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Units).To(Equal([]config.UnitSpec{
				{Name: "ALU 1", Operator: program.Add},
				{Name: "ALU 2", Operator: program.Sub},
			}))
			Expect(p.Latency[program.Mul]).To(Equal(6))
			Expect(p.Latency[program.Div]).To(Equal(8))
			Expect(p.Store.ThrottledReadConsumesPort).To(BeTrue())
		})

		It("should fail on a missing file", func() {
			_, err := config.LoadConfig("testdata/missing.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should save and load the same platform", func() {
			path := filepath.Join(GinkgoT().TempDir(), "platform.yaml")
			p := config.DefaultParallelPlatform()
			p.Latency[program.Div] = 12

			Expect(p.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(p))
		})
	})

	Describe("ApplyEnv", func() {
		AfterEach(func() {
			os.Unsetenv(config.EnvLatencyAdd)
			os.Unsetenv(config.EnvLatencyDiv)
		})

		It("should override latencies from the environment", func() {
			os.Setenv(config.EnvLatencyAdd, "5")
			os.Setenv(config.EnvLatencyDiv, "not-a-number")

			p := config.DefaultParallelPlatform()
			p.ApplyEnv()

			Expect(p.Latency[program.Add]).To(Equal(5))
			Expect(p.Latency[program.Div]).To(Equal(8))
		})
	})
})

var _ = Describe("PoolBuilder", func() {
	It("should build the store and units of a platform", func() {
		b := config.PoolBuilder{}.
			WithPlatform(config.DefaultParallelPlatform()).
			WithConstants([]program.Constant{{ID: 1, Value: "a"}, {ID: 2, Value: "b"}})

		s := b.BuildStore()
		units := b.BuildUnits(s)

		Expect(s.Has(1)).To(BeTrue())
		Expect(units).To(HaveLen(5))
		Expect(units[0].Name()).To(Equal("P[+] 1"))
		Expect(units[4].Operator()).To(Equal(program.Div))
		Expect(units[4].Mode()).To(Equal(core.Parallel))
	})
})
