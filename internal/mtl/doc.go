// Package mtl reads Landsat level-1 metadata ("MTL") text files: lines of
// KEY = VALUE grouped by GROUP/END_GROUP markers. It extracts the thermal
// band radiometric calibration and keeps every other value for lookup.
package mtl
