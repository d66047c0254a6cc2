/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/irows/mem"
)

func newTestStorage(t *testing.T) irows.IRowStorage {
	require := require.New(t)
	factory := mem.Provide()
	require.NoError(factory.Init("test"))
	storage, err := factory.Storage("test")
	require.NoError(err)
	require.NoError(SeedSysRows(storage))
	return storage
}

func TestResolveFields_TerminalTypesAreEmpty(t *testing.T) {
	require := require.New(t)
	r := Provide(context.Background(), newTestStorage(t))

	for id := irows.ID(1); id <= SysLastID; id++ {
		fields, err := r.ResolveFields(id)
		require.NoError(err)
		require.Empty(fields, "terminal type «%v» must have no fields", id)
	}
}

func TestResolveType(t *testing.T) {
	require := require.New(t)
	storage := newTestStorage(t)
	r := Provide(context.Background(), storage)

	t.Run("terminal", func(t *testing.T) {
		def, err := r.ResolveType(SysNumber)
		require.NoError(err)
		require.True(def.Terminal)
		require.Equal(DataKind_Number, def.DataKind)
		require.Equal("Number", def.Name)
		require.Empty(def.Fields)
	})

	t.Run("composite with unique flag", func(t *testing.T) {
		typ, err := storage.Insert(irows.NullID, UniqueFlag, irows.NullID, "Tag")
		require.NoError(err)
		def, err := r.ResolveType(typ)
		require.NoError(err)
		require.False(def.Terminal)
		require.True(def.Unique)
		require.Equal(DataKind_null, def.DataKind)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := r.ResolveType(100500)
		require.ErrorIs(err, coreutils.ErrNotFoundError)
	})
}

func TestResolveFields(t *testing.T) {
	require := require.New(t)
	storage := newTestStorage(t)
	r := Provide(context.Background(), storage)

	person, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Person")
	require.NoError(err)

	invoice, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Invoice")
	require.NoError(err)
	amount, err := storage.Insert(invoice, 1, SysNumber, FieldModifiers{Required: true}.Encode("Amount"))
	require.NoError(err)
	customer, err := storage.Insert(invoice, 2, person, "Customer")
	require.NoError(err)
	tags, err := storage.Insert(invoice, 3, SysShortText, FieldModifiers{Multi: true, Alias: "tg"}.Encode("Tags"))
	require.NoError(err)

	fields, err := r.ResolveFields(invoice)
	require.NoError(err)
	require.Len(fields, 3)

	require.Equal(
		Field{ID: amount, Name: "Amount", Order: 1, Required: true,
			Kind: FieldKind_Primitive, DataKind: DataKind_Number},
		fields[0])
	require.Equal(
		Field{ID: customer, Name: "Customer", Order: 2,
			Kind: FieldKind_Reference, Target: person, Restriction: person},
		fields[1])
	require.Equal(
		Field{ID: tags, Name: "Tags", Alias: "tg", Order: 3, Multi: true,
			Kind: FieldKind_Primitive, DataKind: DataKind_ShortText},
		fields[2])
	require.Equal("tg", fields[2].DisplayName())
}

func TestResolveRestriction(t *testing.T) {
	require := require.New(t)
	storage := newTestStorage(t)
	r := Provide(context.Background(), storage)

	base, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Employee")
	require.NoError(err)
	// alias type pointing at base
	aliasTyp, err := storage.Insert(irows.NullID, irows.DefaultOrder, base, "Manager")
	require.NoError(err)

	holder, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Project")
	require.NoError(err)
	_, err = storage.Insert(holder, 1, aliasTyp, "Lead")
	require.NoError(err)

	fields, err := r.ResolveFields(holder)
	require.NoError(err)
	require.Len(fields, 1)
	require.Equal(aliasTyp, fields[0].Target)
	require.Equal(base, fields[0].Restriction, "restriction follows the alias chain")

	t.Run("pointer cycle is bounded", func(t *testing.T) {
		a := irows.ID(77001)
		b := irows.ID(77002)
		require.NoError(storage.InsertExact(irows.Row{ID: a, Type: b, Order: irows.DefaultOrder, Value: "A"}))
		require.NoError(storage.InsertExact(irows.Row{ID: b, Type: a, Order: irows.DefaultOrder, Value: "B"}))

		holder2, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "H")
		require.NoError(err)
		_, err = storage.Insert(holder2, 1, a, "Cycle")
		require.NoError(err)

		fields, err := r.ResolveFields(holder2)
		require.NoError(err)
		require.Len(fields, 1, "a cycle must not hang field resolution")
	})
}

func TestResolveInstance(t *testing.T) {
	require := require.New(t)
	storage := newTestStorage(t)
	r := Provide(context.Background(), storage)

	person, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Person")
	require.NoError(err)
	alice, err := storage.Insert(irows.NullID, irows.DefaultOrder, person, "Alice")
	require.NoError(err)

	invoice, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Invoice")
	require.NoError(err)
	amount, err := storage.Insert(invoice, 1, SysNumber, FieldModifiers{Required: true}.Encode("Amount"))
	require.NoError(err)
	customer, err := storage.Insert(invoice, 2, person, "Customer")
	require.NoError(err)
	tags, err := storage.Insert(invoice, 3, SysShortText, FieldModifiers{Multi: true}.Encode("Tags"))
	require.NoError(err)

	inv1, err := storage.Insert(irows.NullID, irows.DefaultOrder, invoice, "INV-1")
	require.NoError(err)
	_, err = storage.Insert(inv1, 1, amount, "150")
	require.NoError(err)
	_, err = storage.Insert(inv1, 1, customer, alice.String())
	require.NoError(err)
	_, err = storage.Insert(inv1, 1, tags, "urgent")
	require.NoError(err)
	_, err = storage.Insert(inv1, 2, tags, "paper")
	require.NoError(err)

	inst, err := r.ResolveInstance(invoice, inv1)
	require.NoError(err)
	require.Equal("INV-1", inst.Value)
	require.Len(inst.Fields, 3)

	require.Equal("150", inst.Field("Amount").StoredValue)

	cust := inst.Field("Customer")
	require.Equal([]Ref{{ID: alice, Display: "Alice"}}, cust.Refs)
	require.Equal("Alice", cust.StoredValue)

	require.Equal(2, inst.Field("Tags").Count)

	t.Run("object not found", func(t *testing.T) {
		_, err := r.ResolveInstance(invoice, 100500)
		require.ErrorIs(err, coreutils.ErrNotFoundError)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := r.ResolveInstance(person, inv1)
		require.ErrorIs(err, coreutils.ErrInvalidArgumentError)
	})

	t.Run("multi-valued reference concatenates in creation order", func(t *testing.T) {
		bob, err := storage.Insert(irows.NullID, irows.DefaultOrder, person, "Bob")
		require.NoError(err)

		contract, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Contract")
		require.NoError(err)
		parties, err := storage.Insert(contract, 1, person, FieldModifiers{Multi: true}.Encode("Parties"))
		require.NoError(err)

		c1, err := storage.Insert(irows.NullID, irows.DefaultOrder, contract, "C-1")
		require.NoError(err)
		// orders reversed against creation order on purpose
		_, err = storage.Insert(c1, 2, parties, alice.String())
		require.NoError(err)
		_, err = storage.Insert(c1, 1, parties, bob.String())
		require.NoError(err)

		inst, err := r.ResolveInstance(contract, c1)
		require.NoError(err)
		p := inst.Field("Parties")
		require.Equal("Alice, Bob", p.StoredValue, "creation (id) order wins over sibling order")
		require.Equal([]Ref{{ID: alice, Display: "Alice"}, {ID: bob, Display: "Bob"}}, p.Refs)
	})
}
