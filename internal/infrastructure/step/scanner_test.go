package step

import (
	"testing"

	"github.com/stretchr/testify/require"

	"step-bot/internal/domain/entity"
)

func TestHeuristicScanner_Points(t *testing.T) {
	content := `#1=CARTESIAN_POINT('',(1.0,-2.5,3.E+2));
#2=CARTESIAN_POINT ( 'p' , ( 1.5e2 , +4 , -0.25E-1 ) );
#3=CARTESIAN_POINT('',(10.,0.,5.));`

	scan := HeuristicScanner{}.Scan(content)
	require.Equal(t, []entity.Point{
		{X: 1, Y: -2.5, Z: 300},
		{X: 150, Y: 4, Z: -0.025},
		{X: 10, Y: 0, Z: 5},
	}, scan.Points)
}

func TestHeuristicScanner_SkipsMalformedTriples(t *testing.T) {
	content := `CARTESIAN_POINT('',(1.0.0,2.0,3.0))
CARTESIAN_POINT('',(1.0,--2,3.0))
CARTESIAN_POINT('',(E,2.0,3.0))
CARTESIAN_POINT('',(1E400,2.0,3.0))
CARTESIAN_POINT('',(7.0,8.0,9.0))
CARTESIAN_POINT('',(1.0,2.0))`

	scan := HeuristicScanner{}.Scan(content)
	require.Equal(t, []entity.Point{{X: 7, Y: 8, Z: 9}}, scan.Points)
}

func TestHeuristicScanner_Counts(t *testing.T) {
	content := `#1=PRODUCT('a','a','',(#9));
#2=PRODUCT ('b','b','',(#9));
#3=PRODUCT_DEFINITION('design','',#4,#5);
#6=CIRCLE('',#7,2.);
#8=CIRCLE ('',#7,4.);
#10=ADVANCED_FACE('',(#11),#12,.T.);`

	scan := HeuristicScanner{}.Scan(content)
	require.Equal(t, 2, scan.ProductCount)
	require.Equal(t, 2, scan.PartsCount())
	require.Equal(t, 2, scan.CircleCount)
	require.Equal(t, 1, scan.AdvancedFaceCount)
	require.False(t, scan.HasCylindricalSurface)
	require.False(t, scan.HasFilletIndicator)
	require.Empty(t, scan.Points)
}

func TestHeuristicScanner_PartsFloor(t *testing.T) {
	scan := HeuristicScanner{}.Scan("CARTESIAN_POINT('',(0.,0.,0.))")
	require.Equal(t, 0, scan.ProductCount)
	require.Equal(t, 1, scan.PartsCount())
}

func TestHeuristicScanner_FilletIndicator(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"edge curve and circle on one line", "#5=EDGE_CURVE('',#1,#2,#3,.T.); #6=CIRCLE('',#7,1.);", true},
		{"edge curve and circle on separate lines", "#5=EDGE_CURVE('',#1,#2,#3,.T.);\n#6=CIRCLE('',#7,1.);", false},
		{"b-spline alone", "#9=B_SPLINE_CURVE_WITH_KNOTS('',3,(#1,#2),.UNSPECIFIED.,.F.,.F.,(4,4),(0.,1.),.UNSPECIFIED.);", true},
		{"circle alone", "#6=CIRCLE('',#7,1.);", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, HeuristicScanner{}.Scan(tc.content).HasFilletIndicator)
		})
	}
}

func TestParseTriple(t *testing.T) {
	p, ok := parseTriple("1.", "-2.5E-1", "+3e2")
	require.True(t, ok)
	require.Equal(t, entity.Point{X: 1, Y: -0.25, Z: 300}, p)

	_, ok = parseTriple("1", "2", "x")
	require.False(t, ok)
}
