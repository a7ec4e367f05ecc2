package catalog

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/advisor-match/internal/model"
)

// ErrUnsupportedFormat is returned for file extensions the catalog cannot
// read or write.
var ErrUnsupportedFormat = eris.New("catalog: unsupported file format")

// Row kinds in tabular catalog files.
const (
	kindAdvisor  = "advisor"
	kindConsumer = "consumer"
)

// columns is the tabular layout shared by CSV and XLSX files. Multi-valued
// columns are separated by ";".
var columns = []string{
	"kind", "id", "name", "province", "city", "firm_name",
	"languages", "expertise", "fee_structure", "hourly_rate", "portfolio_fee",
	"preferred_language", "start_timeline", "investable_assets", "online",
}

const sheetName = "Catalog"

// ReadFile loads a catalog from a .yaml/.yml, .csv or .xlsx file.
func ReadFile(path string) (*Catalog, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read yaml")
		}
		return DecodeYAML(data)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "catalog: open csv")
		}
		defer f.Close() //nolint:errcheck
		rows, err := readCSV(f)
		if err != nil {
			return nil, err
		}
		return fromRows(rows)
	case ".xlsx":
		rows, err := readXLSX(path)
		if err != nil {
			return nil, err
		}
		return fromRows(rows)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "read %q", ext)
	}
}

// WriteFile saves cat as .yaml/.yml or .xlsx.
func WriteFile(path string, cat *Catalog) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := EncodeYAML(cat)
		if err != nil {
			return err
		}
		return eris.Wrap(os.WriteFile(path, data, 0o644), "catalog: write yaml")
	case ".xlsx":
		return writeXLSX(path, toRows(cat))
	default:
		return eris.Wrapf(ErrUnsupportedFormat, "write %q", ext)
	}
}

// DecodeYAML parses a YAML catalog document.
func DecodeYAML(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, eris.Wrap(err, "catalog: decode yaml")
	}
	return &cat, nil
}

// EncodeYAML renders cat as YAML.
func EncodeYAML(cat *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cat); err != nil {
		return nil, eris.Wrap(err, "catalog: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, eris.Wrap(err, "catalog: close yaml encoder")
	}
	return buf.Bytes(), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read csv")
		}
		rows = append(rows, record)
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open xlsx")
	}
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		if len(f.Sheets) == 0 {
			return nil, eris.New("catalog: xlsx has no sheets")
		}
		sheet = f.Sheets[0]
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func writeXLSX(path string, rows [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "catalog: add sheet")
	}
	for _, data := range rows {
		row := sheet.AddRow()
		for _, v := range data {
			row.AddCell().SetString(v)
		}
	}
	return eris.Wrap(f.Save(path), "catalog: save xlsx")
}

// fromRows maps a header row plus data rows onto catalog entries. Columns
// are matched by header name, so order and extra columns do not matter.
func fromRows(rows [][]string) (*Catalog, error) {
	if len(rows) == 0 {
		return &Catalog{}, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"kind", "id", "name"} {
		if _, ok := idx[required]; !ok {
			return nil, eris.Errorf("catalog: missing %q column", required)
		}
	}

	cat := &Catalog{}
	for n, row := range rows[1:] {
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if get("id") == "" && get("name") == "" {
			continue
		}

		online, _ := strconv.ParseBool(get("online"))
		switch strings.ToLower(get("kind")) {
		case kindAdvisor:
			cat.Advisors = append(cat.Advisors, model.AdvisorProfile{
				ID:           get("id"),
				Name:         get("name"),
				Province:     get("province"),
				City:         get("city"),
				FirmName:     get("firm_name"),
				Languages:    splitList(get("languages")),
				Expertise:    splitList(get("expertise")),
				FeeStructure: get("fee_structure"),
				Pricing: model.Pricing{
					HourlyRate:   parseFloat(get("hourly_rate")),
					PortfolioFee: parseFloat(get("portfolio_fee")),
				},
				Online: online,
			})
		case kindConsumer:
			cat.Consumers = append(cat.Consumers, model.ConsumerProfile{
				ID:                get("id"),
				Name:              get("name"),
				Province:          get("province"),
				PreferredLanguage: get("preferred_language"),
				StartTimeline:     get("start_timeline"),
				InvestableAssets:  get("investable_assets"),
				Online:            online,
			})
		default:
			return nil, eris.Errorf("catalog: row %d: unknown kind %q", n+2, get("kind"))
		}
	}
	return cat, nil
}

func toRows(cat *Catalog) [][]string {
	rows := [][]string{columns}
	for _, a := range cat.Advisors {
		rows = append(rows, []string{
			kindAdvisor, a.ID, a.Name, a.Province, a.City, a.FirmName,
			strings.Join(a.Languages, ";"), strings.Join(a.Expertise, ";"), a.FeeStructure,
			formatFloat(a.Pricing.HourlyRate), formatFloat(a.Pricing.PortfolioFee),
			"", "", "", strconv.FormatBool(a.Online),
		})
	}
	for _, c := range cat.Consumers {
		rows = append(rows, []string{
			kindConsumer, c.ID, c.Name, c.Province, "", "",
			"", "", "", "", "",
			c.PreferredLanguage, c.StartTimeline, c.InvestableAssets, strconv.FormatBool(c.Online),
		})
	}
	return rows
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
