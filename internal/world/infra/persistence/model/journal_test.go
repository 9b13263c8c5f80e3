package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/command"
	"Settlers/internal/world/entity"
)

func adminRecord() *entity.TickRecord {
	return &entity.TickRecord{
		SessionID: "s1",
		Tick:      7,
		Commands: []command.Envelope{
			{Kind: command.KindQuickSave, Player: 1, Payload: []byte(`{"player":1}`)},
		},
		Admin:  []command.AdminAction{command.MarkLost(2), command.ControlAll(true)},
		Digest: 0xfeedbeef00000001,
	}
}

func TestJournalDoc_管理操作随记录保存(t *testing.T) {
	doc := RecordToDoc(adminRecord())
	assert.Equal(t, "s1:7", doc.ID)
	require.Len(t, doc.Admin, 2)
	assert.Equal(t, AdminDoc{Kind: "mark_lost", Player: 2}, doc.Admin[0])
	assert.Equal(t, AdminDoc{Kind: "control_all", On: true}, doc.Admin[1])

	rec, err := DocToRecord(doc)
	require.NoError(t, err)
	assert.Equal(t, adminRecord().Admin, rec.Admin)
	assert.Equal(t, uint64(0xfeedbeef00000001), rec.Digest)

	doc.Admin = append(doc.Admin, AdminDoc{Kind: "reset_world"})
	_, err = DocToRecord(doc)
	assert.Error(t, err)
}

func TestJournalRow_没有管理操作时列为空(t *testing.T) {
	rec := adminRecord()
	row, err := RecordToRow(rec)
	require.NoError(t, err)
	assert.Contains(t, row.Admin, `"mark_lost"`)
	back, err := RowToRecord(row)
	require.NoError(t, err)
	assert.Equal(t, rec.Admin, back.Admin)

	rec.Admin = nil
	row, err = RecordToRow(rec)
	require.NoError(t, err)
	assert.Empty(t, row.Admin)
	back, err = RowToRecord(row)
	require.NoError(t, err)
	assert.Empty(t, back.Admin)
}
