package genr

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Header matches what the parse stage requires of an export.
var Header = []string{"CreationDate", "Operation", "UserId", "AuditData"}

// GenConfig describes one synthetic audit export, parsed from YAML.
type GenConfig struct {
	Output string `yaml:"output"`
	Format string `yaml:"format"` // csv | xlsx, default from output extension
	Seed   int64  `yaml:"seed"`
	Rows   int    `yaml:"rows"`
	Users  int    `yaml:"users"`
	Days   int    `yaml:"days"`
	Start  string `yaml:"start"` // window end date YYYY-MM-DD, empty = today
	HomeIP string `yaml:"homeIp"`

	Mix struct {
		Routine     float64 `yaml:"routine"`
		Destructive float64 `yaml:"destructive"`
		AuthFailure float64 `yaml:"authFailure"`
		Admin       float64 `yaml:"admin"`
	} `yaml:"mix"`

	IPMix struct {
		Home     float64 `yaml:"home"`
		Internal float64 `yaml:"internal"`
		US       float64 `yaml:"us"`
		Foreign  float64 `yaml:"foreign"`
	} `yaml:"ipMix"`

	MalformedRate    float64 `yaml:"malformedRate"`
	BadTimestampRate float64 `yaml:"badTimestampRate"`
}

// readGenConfig parses the YAML generator config
func readGenConfig(path string) (GenConfig, error) {
	log.Printf("[DEBUG] Loading config from %s\n", path)
	var cfg GenConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// normalizeGenConfig fills defaults and scales the mixes to sum to 1.0
func normalizeGenConfig(cfg *GenConfig) {
	if cfg.Output == "" {
		cfg.Output = "audit_export.csv"
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 1000
	}
	if cfg.Users <= 0 {
		cfg.Users = 25
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	if cfg.Start == "" {
		cfg.Start = time.Now().UTC().Format("2006-01-02")
	}
	if cfg.HomeIP == "" {
		cfg.HomeIP = "192.168.1.160"
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// op mix
	tot := cfg.Mix.Routine + cfg.Mix.Destructive + cfg.Mix.AuthFailure + cfg.Mix.Admin
	if tot <= 0 {
		cfg.Mix.Routine, cfg.Mix.Destructive, cfg.Mix.AuthFailure, cfg.Mix.Admin = 0.75, 0.08, 0.10, 0.07
		tot = 1
	}
	cfg.Mix.Routine /= tot
	cfg.Mix.Destructive /= tot
	cfg.Mix.AuthFailure /= tot
	cfg.Mix.Admin /= tot

	// address mix
	tota := cfg.IPMix.Home + cfg.IPMix.Internal + cfg.IPMix.US + cfg.IPMix.Foreign
	if tota <= 0 {
		cfg.IPMix.Home, cfg.IPMix.Internal, cfg.IPMix.US, cfg.IPMix.Foreign = 0.35, 0.25, 0.25, 0.15
		tota = 1
	}
	cfg.IPMix.Home /= tota
	cfg.IPMix.Internal /= tota
	cfg.IPMix.US /= tota
	cfg.IPMix.Foreign /= tota
}

// actor is one synthetic user with a stable set of client addresses.
type actor struct {
	user string
	ips  []string
}

// buildActors gives every user a stable address set. Most users sit on one
// or two addresses; every seventh roams across pools, which feeds the
// address-diversity and cross-country heuristics downstream.
func buildActors(cfg GenConfig) []actor {
	actors := make([]actor, 0, cfg.Users)
	for i := 0; i < cfg.Users; i++ {
		user := fmt.Sprintf("%s.%s@contoso-corp.example",
			strings.ToLower(gofakeit.FirstName()), strings.ToLower(gofakeit.LastName()))
		var ips []string
		if i%7 == 0 {
			for j := gofakeit.Number(4, 6); j > 0; j-- {
				ips = append(ips, pickIP(cfg))
			}
		} else {
			ips = append(ips, pickIP(cfg))
			if gofakeit.Number(0, 3) == 0 {
				ips = append(ips, pickIP(cfg))
			}
		}
		actors = append(actors, actor{user: user, ips: ips})
	}
	return actors
}

func pickOp(cfg GenConfig) string {
	r := gofakeit.Float64Range(0, 1)
	switch {
	case r < cfg.Mix.Routine:
		return RandomRoutineOp()
	case r < cfg.Mix.Routine+cfg.Mix.Destructive:
		return RandomDestructiveOp()
	case r < cfg.Mix.Routine+cfg.Mix.Destructive+cfg.Mix.AuthFailure:
		return RandomAuthFailureOp()
	default:
		return RandomAdminOp()
	}
}

func pickIP(cfg GenConfig) string {
	r := gofakeit.Float64Range(0, 1)
	switch {
	case r < cfg.IPMix.Home:
		return cfg.HomeIP
	case r < cfg.IPMix.Home+cfg.IPMix.Internal:
		return RandomInternalIP()
	case r < cfg.IPMix.Home+cfg.IPMix.Internal+cfg.IPMix.US:
		return RandomUSIP()
	default:
		return RandomForeignIP()
	}
}

// pickTimestamp places an event inside the export window with a business
// hours bias; the rest can land at any hour, including nights and weekends.
func pickTimestamp(cfg GenConfig, end time.Time) time.Time {
	day := gofakeit.Number(0, cfg.Days-1)
	var hour int
	if gofakeit.Float64Range(0, 1) < 0.7 {
		hour = gofakeit.Number(8, 17)
	} else {
		hour = gofakeit.Number(0, 23)
	}
	base := end.AddDate(0, 0, -day)
	return time.Date(base.Year(), base.Month(), base.Day(),
		hour, gofakeit.Number(0, 59), gofakeit.Number(0, 59), 0, time.UTC)
}

func isAuthFailure(op string) bool {
	for _, f := range AuthFailureOps {
		if op == f {
			return true
		}
	}
	return false
}

func buildRow(cfg GenConfig, a actor, end time.Time) []string {
	op := pickOp(cfg)
	ip := a.ips[gofakeit.Number(0, len(a.ips)-1)]
	ts := pickTimestamp(cfg, end)

	status := "Succeeded"
	if isAuthFailure(op) {
		status = "Failed"
	}

	audit := map[string]string{
		"Id":           gofakeit.UUID(),
		"ClientIP":     ip,
		"ResultStatus": status,
	}
	switch op {
	case "FileAccessed", "FileModified", "FileDownloaded", "FileAccessDenied":
		audit["SourceFileName"] = RandomFileName()
	}
	data, _ := json.Marshal(audit)
	cell := string(data)
	if gofakeit.Float64Range(0, 1) < cfg.MalformedRate {
		// torn mid-write, the way real exports break
		cell = cell[:len(cell)/2]
	}

	creation := ts.Format("2006-01-02T15:04:05")
	if gofakeit.Float64Range(0, 1) < cfg.BadTimestampRate {
		creation = RandomBadTimestamp()
	}

	return []string{creation, op, a.user, cell}
}

// BuildRows generates the full export: Header first, then cfg.Rows data
// rows in arrival order, unsorted, the way real exports come out.
// The same seed and config produce the same rows.
func BuildRows(cfg GenConfig) ([][]string, error) {
	end, err := time.Parse("2006-01-02", cfg.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", cfg.Start, err)
	}

	gofakeit.Seed(cfg.Seed)
	actors := buildActors(cfg)

	rows := make([][]string, 0, cfg.Rows+1)
	rows = append(rows, Header)
	for i := 0; i < cfg.Rows; i++ {
		a := actors[gofakeit.Number(0, len(actors)-1)]
		rows = append(rows, buildRow(cfg, a, end))
	}
	return rows, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return csv.NewWriter(f).WriteAll(rows)
}

func writeXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func resolveOutputFormat(cfg GenConfig) string {
	if cfg.Format != "" {
		return cfg.Format
	}
	if strings.HasSuffix(strings.ToLower(cfg.Output), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

// Generate produces a synthetic audit export from the YAML config at configPath.
func Generate(configPath *string) {
	cfg, err := readGenConfig(*configPath)
	if err != nil {
		log.Fatalf("[FATAL] error loading gen config: %v", err)
	}
	normalizeGenConfig(&cfg)

	log.Printf("[INFO] Generating export: output=%s format=%s rows=%d users=%d days=%d seed=%d",
		cfg.Output, resolveOutputFormat(cfg), cfg.Rows, cfg.Users, cfg.Days, cfg.Seed)

	rows, err := BuildRows(cfg)
	if err != nil {
		log.Fatalf("[FATAL] generation failed: %v", err)
	}

	switch resolveOutputFormat(cfg) {
	case "xlsx":
		err = writeXLSX(cfg.Output, rows)
	case "csv":
		err = writeCSV(cfg.Output, rows)
	default:
		log.Fatalf("[FATAL] unsupported format %q", cfg.Format)
	}
	if err != nil {
		log.Fatalf("[FATAL] cannot write output file: %v", err)
	}

	log.Printf("[INFO] Generation complete: rows=%d output=%s", len(rows)-1, cfg.Output)
	fmt.Printf("audit export generated: %s\n", cfg.Output)
}

// SampleConfig is a ready-to-edit generator config.
const SampleConfig = `# genr configuration
output: audit_export.csv   # .csv or .xlsx
seed: 42                   # 0 = random
rows: 1000
users: 25
days: 30
start: ""                  # window end date YYYY-MM-DD, empty = today
homeIp: 192.168.1.160

mix:                       # operation class weights
  routine: 0.75
  destructive: 0.08
  authFailure: 0.10
  admin: 0.07

ipMix:                     # client address pool weights
  home: 0.35
  internal: 0.25
  us: 0.25
  foreign: 0.15

malformedRate: 0.02        # fraction of rows with broken AuditData JSON
badTimestampRate: 0.01     # fraction of rows with unusable CreationDate
`
