package erc20

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenesis(t *testing.T) {
	Convey("Test initializer", t, func() {
		bobBech32, err := sigswap.Bech32Address(bob)
		So(err, ShouldBeNil)

		genesis := `
		{
			"erc20": {
				"tokens": [
					{"address": "0x1000000000000000000000000000000000000001", "name": "Test Token", "symbol": "TST", "decimals": 18}
				],
				"balances": [
					{"token": "0x1000000000000000000000000000000000000001", "owner": "0x2000000000000000000000000000000000000002", "amount": "1000"},
					{"token": "0x1000000000000000000000000000000000000001", "owner": "bech32:` + bobBech32 + `", "amount": "0x2a"}
				],
				"allowances": [
					{"token": "0x1000000000000000000000000000000000000001", "owner": "0x2000000000000000000000000000000000000002", "spender": "0x4000000000000000000000000000000000000004", "amount": "500"}
				]
			}
		}`
		var o sigswap.Options
		err = json.Unmarshal([]byte(genesis), &o)
		So(err, ShouldBeNil)

		db := store.MemStore()

		var init Initializer
		err = init.FromGenesis(o, db)
		So(err, ShouldBeNil)

		ctrl := NewController()

		Convey("Token is registered with the minted supply", func() {
			tok, err := ctrl.Token(db, tokenAddr)
			So(err, ShouldBeNil)
			So(tok.Name, ShouldEqual, "Test Token")
			So(tok.Decimals, ShouldEqual, uint8(18))
			So(tok.TotalSupply.Uint64(), ShouldEqual, uint64(1042))
		})

		Convey("Balances are funded", func() {
			a, err := ctrl.BalanceOf(db, tokenAddr, alice)
			So(err, ShouldBeNil)
			So(a.Uint64(), ShouldEqual, uint64(1000))

			b, err := ctrl.BalanceOf(db, tokenAddr, bob)
			So(err, ShouldBeNil)
			So(b.Uint64(), ShouldEqual, uint64(42))
		})

		Convey("Allowances are granted", func() {
			allowance, err := ctrl.Allowance(db, tokenAddr, alice, escrow)
			So(err, ShouldBeNil)
			So(allowance.Uint64(), ShouldEqual, uint64(500))
		})
	})

	Convey("Empty genesis is a noop", t, func() {
		var init Initializer
		err := init.FromGenesis(sigswap.Options{}, store.MemStore())
		So(err, ShouldBeNil)
	})

	Convey("Balance of an unknown token", t, func() {
		genesis := `{"erc20": {"balances": [
			{"token": "0x1000000000000000000000000000000000000001", "owner": "0x2000000000000000000000000000000000000002", "amount": "1"}
		]}}`
		var o sigswap.Options
		So(json.Unmarshal([]byte(genesis), &o), ShouldBeNil)

		var init Initializer
		err := init.FromGenesis(o, store.MemStore())
		So(errors.ErrNotFound.Is(err), ShouldBeTrue)
	})

	Convey("Invalid amount", t, func() {
		genesis := `{"erc20": {
			"tokens": [{"address": "0x1000000000000000000000000000000000000001", "name": "Test Token", "symbol": "TST"}],
			"balances": [{"token": "0x1000000000000000000000000000000000000001", "owner": "0x2000000000000000000000000000000000000002", "amount": "ten"}]
		}}`
		var o sigswap.Options
		So(json.Unmarshal([]byte(genesis), &o), ShouldBeNil)

		var init Initializer
		err := init.FromGenesis(o, store.MemStore())
		So(errors.ErrAmount.Is(err), ShouldBeTrue)
	})
}
