// CoverPlan covers the marked cells of rectangular fields with as few
// cheap rectangles as possible and reports the coverings.
//
// Build:
//
//	go build -o coverplan ./cmd/coverplan
//
// Usage:
//
//	coverplan [input] [--output optimal_covering.txt] [--format text --format pdf]
//	coverplan compare [input]
//	coverplan config init
package main

func main() {
	Execute()
}
