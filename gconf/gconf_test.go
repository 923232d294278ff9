package gconf

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store"
	"github.com/iov-one/sigswap/weavetest/assert"
)

// testConf is serialized as a plain string and valid only when not empty.
type testConf struct {
	Name string `json:"name"`
}

func (c *testConf) Validate() error {
	if c.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	return nil
}

func (c *testConf) Marshal() ([]byte, error) { return []byte(c.Name), nil }

func (c *testConf) Unmarshal(raw []byte) error {
	c.Name = string(raw)
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var got testConf
	err := Load(db, "demo", &got)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.IsErr(t, errors.ErrEmpty, Save(db, "demo", &testConf{}))

	assert.Nil(t, Save(db, "demo", &testConf{Name: "escrow"}))
	assert.Nil(t, Load(db, "demo", &got))
	assert.Equal(t, "escrow", got.Name)

	raw, err := db.Get([]byte("_c:demo"))
	assert.Nil(t, err)
	assert.Equal(t, "escrow", string(raw))
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    string
	}{
		"configuration present": {
			genesis: `{"conf": {"demo": {"name": "escrow"}}}`,
			want:    "escrow",
		},
		"package missing": {
			genesis: `{"conf": {"other": {"name": "x"}}}`,
			wantErr: errors.ErrNotFound,
		},
		"no conf section": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"conf": {"demo": {"name": ""}}}`,
			wantErr: errors.ErrEmpty,
		},
		"malformed configuration": {
			genesis: `{"conf": {"demo": 42}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts sigswap.Options
			if err := json.NewDecoder(strings.NewReader(tc.genesis)).Decode(&opts); err != nil {
				t.Fatalf("cannot decode genesis: %s", err)
			}
			db := store.MemStore()
			var conf testConf
			err := InitConfig(db, opts, "demo", &conf)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			var loaded testConf
			assert.Nil(t, Load(db, "demo", &loaded))
			assert.Equal(t, tc.want, loaded.Name)
		})
	}
}
