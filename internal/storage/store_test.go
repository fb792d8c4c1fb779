package storage_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatgrid/internal/diffusion"
	"github.com/san-kum/heatgrid/internal/metrics"
	"github.com/san-kum/heatgrid/internal/sim"
	"github.com/san-kum/heatgrid/internal/storage"
)

func runHotspot(steps, every int) *sim.Result {
	g, err := diffusion.New(diffusion.Config{Rows: 4, Cols: 6, Left: []float64{5, 5, 5, 5}})
	Expect(err).NotTo(HaveOccurred())
	Expect(g.SetRegion(diffusion.Range{Start: 1, End: 2}, diffusion.Range{Start: 2, End: 3}, 40)).To(Succeed())

	r := sim.New(g)
	r.AddMetric(metrics.NewTotalMass())
	result, err := r.Run(context.Background(), sim.Config{Steps: steps, SnapshotEvery: every})
	Expect(err).NotTo(HaveOccurred())
	return result
}

var _ = Describe("Store", func() {
	var (
		dir string
		st  *storage.Store
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		st = storage.New(dir)
		Expect(st.Init()).To(Succeed())
	})

	It("lists nothing in an empty directory", func() {
		runs, err := st.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})

	It("lists nothing when the directory does not exist", func() {
		runs, err := storage.New(filepath.Join(dir, "missing")).List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})

	It("rejects a result without snapshots", func() {
		_, err := st.Save(storage.RunMetadata{Name: "empty"}, &sim.Result{})
		Expect(err).To(MatchError(storage.ErrNoField))
	})

	Context("after saving a run", func() {
		var (
			result *sim.Result
			runID  string
		)

		BeforeEach(func() {
			result = runHotspot(30, 10)
			var err error
			runID, err = st.Save(storage.RunMetadata{Name: "hotspot", Steps: 30, SnapshotEvery: 10}, result)
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes the run directory layout", func() {
			Expect(runID).To(HavePrefix("hotspot_"))
			for _, name := range []string{"metadata.json", "field.txt", "history.csv"} {
				Expect(filepath.Join(dir, runID, name)).To(BeARegularFile())
			}
			Expect(filepath.Join(dir, runID, "snapshots")).To(BeADirectory())
		})

		It("stores the final field as a text dump", func() {
			data, err := os.ReadFile(filepath.Join(dir, runID, "field.txt"))
			Expect(err).NotTo(HaveOccurred())

			var want bytes.Buffer
			_, err = diffusion.Write(&want, result.Final())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(want.String()))
			Expect(strings.Count(string(data), "\n")).To(Equal(4))
		})

		It("loads the metadata", func() {
			meta, err := st.Load(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Name).To(Equal("hotspot"))
			Expect(meta.Rows).To(Equal(4))
			Expect(meta.Cols).To(Equal(6))
			Expect(meta.StepsTaken).To(Equal(30))
			Expect(meta.Metrics).To(HaveKeyWithValue("total_mass", BeNumerically("~", result.Metrics["total_mass"], 1e-9)))
		})

		It("loads the field back within dump precision", func() {
			field, err := st.LoadField(runID)
			Expect(err).NotTo(HaveOccurred())
			final := result.Final()
			for i := 0; i < 4; i++ {
				for j := 0; j < 6; j++ {
					Expect(field.At(i, j)).To(BeNumerically("~", final.At(i, j), 5e-5))
				}
			}
		})

		It("keeps every snapshot", func() {
			steps, err := st.Snapshots(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(Equal([]int{0, 10, 20, 30}))

			initial, err := st.LoadSnapshot(runID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(initial.At(1, 2)).To(Equal(40.0))
		})

		It("loads the history", func() {
			tr, err := st.LoadHistory(runID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Steps).To(HaveLen(31))
			Expect(tr.Steps[30]).To(Equal(30))
			Expect(tr.Mass[0]).To(BeNumerically("~", 160, 1e-6))
			Expect(tr.Peak[0]).To(BeNumerically("~", 40, 1e-6))
		})

		It("lists the run", func() {
			runs, err := st.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal(runID))
		})

		It("exports the run as JSON", func() {
			var buf bytes.Buffer
			Expect(st.ExportJSON(&buf, runID)).To(Succeed())

			var data storage.ExportData
			Expect(json.Unmarshal(buf.Bytes(), &data)).To(Succeed())
			Expect(data.Run.ID).To(Equal(runID))
			Expect(data.Field).To(HaveLen(4))
			Expect(data.Field[0]).To(HaveLen(6))
			Expect(data.History.Mass).To(HaveLen(31))
		})
	})

	It("returns an error for an unknown run", func() {
		_, err := st.Load("nope")
		Expect(err).To(HaveOccurred())
		_, err = st.LoadField("nope")
		Expect(err).To(HaveOccurred())
	})
})
