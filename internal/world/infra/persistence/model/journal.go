package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/world/entity"
)

// ---- mongodb ----

// JournalDoc 一条 tick 记录。_id 为 "session_id:tick"，重复写入同一 tick 覆盖。
type JournalDoc struct {
	ID        string        `bson:"_id"`
	SessionID string        `bson:"session_id"`
	Tick      int64         `bson:"tick"`
	Commands  []EnvelopeDoc `bson:"commands"`
	Admin     []AdminDoc    `bson:"admin,omitempty"`
	Digest    string        `bson:"digest"`
	CreatedAt time.Time     `bson:"created_at"`
}

type AdminDoc struct {
	Kind   string `bson:"kind"`
	Player int32  `bson:"player"`
	On     bool   `bson:"on"`
}

type EnvelopeDoc struct {
	Kind    string `bson:"kind"`
	Player  int32  `bson:"player"`
	Payload string `bson:"payload,omitempty"`
}

// SnapshotDoc 每个会话只保留最新快照，State 为快照的 JSON。
type SnapshotDoc struct {
	SessionID string    `bson:"_id"`
	Version   int64     `bson:"version"`
	Tick      int64     `bson:"tick"`
	Digest    string    `bson:"digest"`
	State     string    `bson:"state"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func JournalDocID(sessionID string, tick uint64) string {
	return sessionID + ":" + strconv.FormatUint(tick, 10)
}

func RecordToDoc(rec *entity.TickRecord) JournalDoc {
	doc := JournalDoc{
		ID:        JournalDocID(rec.SessionID, rec.Tick),
		SessionID: rec.SessionID,
		Tick:      int64(rec.Tick),
		Commands:  make([]EnvelopeDoc, 0, len(rec.Commands)),
		Digest:    FormatDigest(rec.Digest),
		CreatedAt: time.Now(),
	}
	for _, env := range rec.Commands {
		doc.Commands = append(doc.Commands, EnvelopeDoc{
			Kind:    env.Kind.String(),
			Player:  int32(env.Player),
			Payload: string(env.Payload),
		})
	}
	for _, a := range rec.Admin {
		doc.Admin = append(doc.Admin, AdminDoc{Kind: a.Kind.String(), Player: int32(a.Player), On: a.On})
	}
	return doc
}

func DocToRecord(doc JournalDoc) (entity.TickRecord, error) {
	digest, err := ParseDigest(doc.Digest)
	if err != nil {
		return entity.TickRecord{}, err
	}
	rec := entity.TickRecord{
		SessionID: doc.SessionID,
		Tick:      uint64(doc.Tick),
		Commands:  make([]command.Envelope, 0, len(doc.Commands)),
		Digest:    digest,
	}
	for _, e := range doc.Commands {
		var kind command.Kind
		if err := kind.UnmarshalText([]byte(e.Kind)); err != nil {
			return entity.TickRecord{}, err
		}
		env := command.Envelope{Kind: kind, Player: domain.PlayerID(e.Player)}
		if e.Payload != "" {
			env.Payload = json.RawMessage(e.Payload)
		}
		rec.Commands = append(rec.Commands, env)
	}
	for _, a := range doc.Admin {
		var kind command.AdminKind
		if err := kind.UnmarshalText([]byte(a.Kind)); err != nil {
			return entity.TickRecord{}, err
		}
		rec.Admin = append(rec.Admin, command.AdminAction{Kind: kind, Player: domain.PlayerID(a.Player), On: a.On})
	}
	return rec, nil
}

func SnapshotToDoc(s *entity.WorldPersistSnapshot) (SnapshotDoc, error) {
	state, err := json.Marshal(s)
	if err != nil {
		return SnapshotDoc{}, err
	}
	return SnapshotDoc{
		SessionID: s.SessionID,
		Version:   int64(s.Version),
		Tick:      int64(s.Tick),
		Digest:    FormatDigest(s.Digest),
		State:     string(state),
		UpdatedAt: time.Now(),
	}, nil
}

// ---- mysql ----

type JournalRow struct {
	Id        uint64    `gorm:"column:id;type:bigint UNSIGNED;primaryKey;autoIncrement;" json:"id"`
	SessionId string    `gorm:"column:session_id;type:varchar(64);comment:会话id;not null;uniqueIndex:uk_session_tick;" json:"session_id"`
	Tick      uint64    `gorm:"column:tick;type:bigint UNSIGNED;comment:tick序号;not null;uniqueIndex:uk_session_tick;" json:"tick"`
	Commands  string    `gorm:"column:commands;type:mediumtext;comment:指令信封json;not null;" json:"commands"`
	Admin     string    `gorm:"column:admin;type:text;comment:tick之后的管理操作json;" json:"admin"`
	Digest    string    `gorm:"column:digest;type:char(16);comment:执行后的世界校验和;not null;" json:"digest"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"created_at"`
}

func (m *JournalRow) TableName() string {
	return "session_journal"
}

type SnapshotRow struct {
	SessionId string    `gorm:"column:session_id;type:varchar(64);comment:会话id;primaryKey;not null;" json:"session_id"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;comment:快照版本;not null;" json:"version"`
	Tick      uint64    `gorm:"column:tick;type:bigint UNSIGNED;comment:快照所在tick;not null;" json:"tick"`
	Digest    string    `gorm:"column:digest;type:char(16);not null;" json:"digest"`
	State     string    `gorm:"column:state;type:mediumtext;comment:快照json;not null;" json:"state"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (m *SnapshotRow) TableName() string {
	return "session_snapshot"
}

func RecordToRow(rec *entity.TickRecord) (JournalRow, error) {
	cmds, err := json.Marshal(rec.Commands)
	if err != nil {
		return JournalRow{}, err
	}
	row := JournalRow{
		SessionId: rec.SessionID,
		Tick:      rec.Tick,
		Commands:  string(cmds),
		Digest:    FormatDigest(rec.Digest),
		CreatedAt: time.Now(),
	}
	if len(rec.Admin) > 0 {
		admin, err := json.Marshal(rec.Admin)
		if err != nil {
			return JournalRow{}, err
		}
		row.Admin = string(admin)
	}
	return row, nil
}

func RowToRecord(row JournalRow) (entity.TickRecord, error) {
	digest, err := ParseDigest(row.Digest)
	if err != nil {
		return entity.TickRecord{}, err
	}
	rec := entity.TickRecord{SessionID: row.SessionId, Tick: row.Tick, Digest: digest}
	if err := json.Unmarshal([]byte(row.Commands), &rec.Commands); err != nil {
		return entity.TickRecord{}, fmt.Errorf("decode commands of tick %d: %w", row.Tick, err)
	}
	if row.Admin != "" {
		if err := json.Unmarshal([]byte(row.Admin), &rec.Admin); err != nil {
			return entity.TickRecord{}, fmt.Errorf("decode admin actions of tick %d: %w", row.Tick, err)
		}
	}
	return rec, nil
}

func SnapshotToRow(s *entity.WorldPersistSnapshot) (SnapshotRow, error) {
	state, err := json.Marshal(s)
	if err != nil {
		return SnapshotRow{}, err
	}
	return SnapshotRow{
		SessionId: s.SessionID,
		Version:   s.Version,
		Tick:      s.Tick,
		Digest:    FormatDigest(s.Digest),
		State:     string(state),
		UpdatedAt: time.Now(),
	}, nil
}

// FormatDigest 校验和存成定长十六进制，bson 不支持超出 int64 的无符号数。
func FormatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

func ParseDigest(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
