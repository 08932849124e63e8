package export

import "testing"

func TestFormulaShapes(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"data amount", dataAmountFormula(7), "=C7*D7"},
		{"worker hours", workerHoursFormula(3, 5), "=SUM(C3:C5)"},
		{"worker amount", workerAmountFormula(3, 5), "=SUMPRODUCT(C3:C5,D3:D5)"},
		{
			"worker weighted rate",
			workerRateFormula(3, 5),
			`=IFERROR(SUMPRODUCT(C3:C5,D3:D5)/SUMIF(D3:D5,"<>",C3:C5),"")`,
		},
		{
			"summary hours",
			summaryCellFormula(ColHours, 3, 9, 12),
			"=SUMIF($B$3:$B$9,A12,$C$3:$C$9)",
		},
		{
			"summary amount",
			summaryCellFormula(ColAmount, 3, 9, 12),
			"=SUMIF($B$3:$B$9,A12,$E$3:$E$9)",
		},
		{
			"grand hours",
			grandCellFormula(ColHours, 3, 9),
			`=SUMIF($B$3:$B$9,"<>",$C$3:$C$9)`,
		},
		{
			"grand amount",
			grandCellFormula(ColAmount, 3, 9),
			`=SUMIF($B$3:$B$9,"<>",$E$3:$E$9)`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %q\nwant %q", tc.got, tc.want)
			}
		})
	}
}
