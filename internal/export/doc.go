// Package export renders recorded runs as plots through gonum.org/v1/plot.
package export
