package dataset

import "encoding/json"

type tableJSON struct {
	Levels  []string `json:"levels"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// MarshalJSON serializes the table as its index levels, columns, and rows in
// group then time order.
func (tb *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		Levels:  tb.Levels(),
		Columns: tb.Columns(),
		Rows:    tb.Rows(),
	})
}

// UnmarshalJSON rebuilds the table, running the same validation as New.
func (tb *Table) UnmarshalJSON(data []byte) error {
	var tj tableJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	rebuilt, err := New(tj.Levels, tj.Columns, tj.Rows)
	if err != nil {
		return err
	}
	*tb = *rebuilt
	return nil
}
