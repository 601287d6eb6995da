package runtime

// WellKnownSymbols holds the engine's well-known symbols (spec.md §3,
// §6.2's Symbol.* entries), allocated once per Context by
// NewWellKnownSymbols so that distinct realms never share symbol
// identity.
type WellKnownSymbols struct {
	Iterator          *SymbolValue
	AsyncIterator      *SymbolValue
	ToPrimitive        *SymbolValue
	ToStringTag        *SymbolValue
	HasInstance        *SymbolValue
	IsConcatSpreadable *SymbolValue
	Species            *SymbolValue
	Unscopables        *SymbolValue
	Match              *SymbolValue
	MatchAll           *SymbolValue
	Replace            *SymbolValue
	Search             *SymbolValue
	Split              *SymbolValue
}

// NewWellKnownSymbols allocates a fresh set of well-known symbols.
func NewWellKnownSymbols() WellKnownSymbols {
	return WellKnownSymbols{
		Iterator:           NewSymbol("Symbol.iterator"),
		AsyncIterator:      NewSymbol("Symbol.asyncIterator"),
		ToPrimitive:        NewSymbol("Symbol.toPrimitive"),
		ToStringTag:        NewSymbol("Symbol.toStringTag"),
		HasInstance:        NewSymbol("Symbol.hasInstance"),
		IsConcatSpreadable: NewSymbol("Symbol.isConcatSpreadable"),
		Species:            NewSymbol("Symbol.species"),
		Unscopables:        NewSymbol("Symbol.unscopables"),
		Match:              NewSymbol("Symbol.match"),
		MatchAll:           NewSymbol("Symbol.matchAll"),
		Replace:            NewSymbol("Symbol.replace"),
		Search:             NewSymbol("Symbol.search"),
		Split:              NewSymbol("Symbol.split"),
	}
}
