package stats

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

func openWorkbook(b []byte) (*excelize.File, error) {
	return excelize.OpenReader(bytes.NewReader(b))
}
