package InputParameters

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/notargets/goweno/kernels"
	"github.com/notargets/goweno/points"
	"github.com/notargets/goweno/types"
)

// Parameters obtained from the YAML job file
type GenerateParameters struct {
	Title     string   `json:"Title"`
	KMin      int      `json:"KMin"`
	KMax      int      `json:"KMax"`
	Families  []string `json:"Families"`
	Targets   []string `json:"Targets"`
	Precision string   `json:"Precision"` // float64 | float32
	Grid      string   `json:"Grid"`      // uniform | nonuniform
	Fuse      bool     `json:"Fuse"`      // one kernel per family instead of weights + reconstruction
	OutputDir string   `json:"OutputDir"`
	Package   string   `json:"Package"` // package clause of generated Go files
	Workers   int      `json:"Workers"`
}

// NewGenerateParameters returns the defaults: k = 3..4, all point families, C
func NewGenerateParameters() *GenerateParameters {
	gp := &GenerateParameters{}
	gp.setDefaults()
	return gp
}

func (gp *GenerateParameters) setDefaults() {
	if gp.Title == "" {
		gp.Title = "WENO kernels"
	}
	if gp.KMin == 0 {
		gp.KMin = 3
	}
	if gp.KMax == 0 {
		gp.KMax = gp.KMin + 1
		if gp.KMin > 3 {
			gp.KMax = gp.KMin
		}
	}
	if len(gp.Families) == 0 {
		for _, f := range types.AllFamilies() {
			gp.Families = append(gp.Families, f.String())
		}
	}
	if len(gp.Targets) == 0 {
		gp.Targets = []string{"c"}
	}
	if gp.Precision == "" {
		gp.Precision = types.Float64.String()
	}
	if gp.Grid == "" {
		gp.Grid = types.Uniform.String()
	}
	if gp.OutputDir == "" {
		gp.OutputDir = "."
	}
	if gp.Package == "" {
		gp.Package = "weno"
	}
	if gp.Workers <= 0 {
		gp.Workers = runtime.NumCPU()
	}
}

// Parse reads a YAML job file, unset fields take the defaults
func (gp *GenerateParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, gp); err != nil {
		return
	}
	gp.setDefaults()
	return gp.Validate()
}

func (gp *GenerateParameters) Validate() (err error) {
	if gp.KMin < 2 || gp.KMax < gp.KMin {
		return fmt.Errorf("invalid order range [%d, %d], need 2 <= KMin <= KMax", gp.KMin, gp.KMax)
	}
	if gp.KMax > points.MaxOrder {
		return fmt.Errorf("KMax = %d exceeds the maximum order %d", gp.KMax, points.MaxOrder)
	}
	if _, err = gp.FamilyList(); err != nil {
		return
	}
	for _, name := range gp.Targets {
		if _, err = kernels.NewTarget(name, types.Float64); err != nil {
			return
		}
	}
	if _, err = gp.DataType(); err != nil {
		return
	}
	var grid types.Grid
	if grid, err = gp.GridType(); err != nil {
		return
	}
	if grid == types.NonUniform && gp.Fuse {
		return fmt.Errorf("fused kernels are only available on uniform grids")
	}
	return
}

func (gp *GenerateParameters) Orders() (K []int) {
	for k := gp.KMin; k <= gp.KMax; k++ {
		K = append(K, k)
	}
	return
}

func (gp *GenerateParameters) FamilyList() (F []types.Family, err error) {
	for _, label := range gp.Families {
		var f types.Family
		if f, err = types.NewFamily(label); err != nil {
			return nil, err
		}
		F = append(F, f)
	}
	return
}

func (gp *GenerateParameters) DataType() (types.DataType, error) { return types.NewDataType(gp.Precision) }

func (gp *GenerateParameters) GridType() (types.Grid, error) { return types.NewGrid(gp.Grid) }

func (gp *GenerateParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", gp.Title)
	fmt.Printf("[%d, %d]\t\t\t= Order Range\n", gp.KMin, gp.KMax)
	fmt.Printf("[%s]\t= Families\n", strings.Join(gp.Families, ", "))
	fmt.Printf("[%s]\t\t\t= Targets\n", strings.Join(gp.Targets, ", "))
	fmt.Printf("[%s]\t\t= Precision\n", gp.Precision)
	fmt.Printf("[%s]\t\t= Grid\n", gp.Grid)
	fmt.Printf("[%v]\t\t\t= Fuse\n", gp.Fuse)
	fmt.Printf("\"%s\"\t\t\t= Output Directory\n", gp.OutputDir)
	fmt.Printf("[%d]\t\t\t\t= Workers\n", gp.Workers)
}

// Marshal writes the parameters back as YAML
func (gp *GenerateParameters) Marshal() ([]byte, error) {
	return yaml.Marshal(gp)
}
