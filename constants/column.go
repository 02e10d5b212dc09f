package constants

// StandardColumn is the canonical identity of a table column.
type StandardColumn string

const (
	ColItemName    StandardColumn = "item_name"
	ColQuantity    StandardColumn = "quantity"
	ColUnitPrice   StandardColumn = "unit_price"
	ColAmount      StandardColumn = "amount"
	ColDescription StandardColumn = "description"
)

var allStandardColumns = []StandardColumn{
	ColItemName,
	ColQuantity,
	ColUnitPrice,
	ColAmount,
	ColDescription,
}

// AllStandardColumns returns the canonical column set in declaration order.
func AllStandardColumns() []StandardColumn {
	out := make([]StandardColumn, len(allStandardColumns))
	copy(out, allStandardColumns)
	return out
}

// ColumnType is the expected data type of a table column.
type ColumnType string

const (
	ColTypeText     ColumnType = "text"
	ColTypeNumeric  ColumnType = "numeric"
	ColTypeFloat    ColumnType = "float"
	ColTypeInteger  ColumnType = "integer"
	ColTypeOptional ColumnType = "optional"
)

// StandardSchema maps each canonical column to its expected type.
func StandardSchema() map[StandardColumn]ColumnType {
	return map[StandardColumn]ColumnType{
		ColItemName:    ColTypeText,
		ColQuantity:    ColTypeNumeric,
		ColUnitPrice:   ColTypeFloat,
		ColAmount:      ColTypeFloat,
		ColDescription: ColTypeOptional,
	}
}

// CellMethod records how a table cell value was obtained.
type CellMethod string

const (
	MethodRegex         CellMethod = "regex"
	MethodClustering    CellMethod = "clustering"
	MethodAlignment     CellMethod = "alignment"
	MethodInterpolation CellMethod = "interpolation"
)
