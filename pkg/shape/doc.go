// Package shape turns an occupancy grid into draw primitives.
//
// Every filled cell becomes a [Circle]. Axis-adjacent filled cells are
// merged into a pill by a [BridgeRect] between their centers, and
// diagonally adjacent cells are joined by a [ConcaveBlob], a curved
// connector whose outline is sampled at [ArcStepDegrees].
//
// [Render] streams primitives in a fixed order so output is reproducible
// and layers can be drawn back-to-front:
//
//	geo := shape.Geometry{Margin: 80, Radius: 32}
//	shape.Render(grid, geo, func(p shape.Primitive) {
//	    switch p := p.(type) {
//	    case shape.Circle:
//	        canvas.Circle(p.Center.X, p.Center.Y, p.Radius)
//	    case shape.BridgeRect:
//	        ...
//	    case shape.ConcaveBlob:
//	        canvas.Polygon(p.Outline())
//	    }
//	})
package shape
