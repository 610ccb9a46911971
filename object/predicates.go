// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

import (
	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/selection"
)

// attributeSource narrows a type parameter to whatever these phi-factory
// predicates need to read attributes off the candidate and the host.
type attributeSource = expr.AttributeSource

// hostAttr reads a named attribute off the host object through the
// overlay in ctx, falling back to its base value when there is none.
func hostAttr(ctx expr.Context, host attributeSource, name string) (expr.Value, error) {
	if ctx.Overlay != nil {
		return ctx.Overlay.Query(host, name)
	}
	return host.BaseAttr(name)
}

// objAttr reads a named attribute off a candidate object, same fallback
// as hostAttr.
func objAttr[T attributeSource](ctx expr.Context, obj T, name string) (expr.Value, error) {
	if ctx.Overlay != nil {
		return ctx.Overlay.Query(obj, name)
	}
	return obj.BaseAttr(name)
}

// SameControllerPredicate grounds filters.py's create_same_controller_
// predicate: matches objects whose controller is the same as host's
// ("X you control").
func SameControllerPredicate[T attributeSource](host attributeSource) selection.Predicate[T] {
	return selection.PredicateFunc[T]{
		FuncName: "SameController:" + host.ID(),
		Fn: func(ctx expr.Context, obj T) (bool, error) {
			hostController, err := hostAttr(ctx, host, "controller")
			if err != nil {
				return false, err
			}
			objController, err := objAttr(ctx, obj, "controller")
			if err != nil {
				return false, err
			}
			return hostController == objController, nil
		},
	}
}

// DifferentControllerPredicate grounds create_different_controller_
// predicate: matches objects with a controller other than host's ("X
// your opponents control").
func DifferentControllerPredicate[T attributeSource](host attributeSource) selection.Predicate[T] {
	same := SameControllerPredicate[T](host)
	return selection.PredicateFunc[T]{
		FuncName: "DifferentController:" + host.ID(),
		Fn: func(ctx expr.Context, obj T) (bool, error) {
			ok, err := same.Test(ctx, obj)
			if err != nil {
				return false, err
			}
			return !ok, nil
		},
	}
}

// ExcludeSelfPredicate grounds create_exclude_self_predicate: matches
// every object other than host itself ("other X").
func ExcludeSelfPredicate[T attributeSource](host attributeSource) selection.Predicate[T] {
	return selection.ExcludeObject[T](func(_ expr.Context) (string, error) {
		return host.ID(), nil
	})
}

// HostObjectPredicate grounds create_host_object_predicate: matches only
// host itself (a CDA reading the host's own derived statistic).
func HostObjectPredicate[T attributeSource](host attributeSource) selection.Predicate[T] {
	return selection.PredicateFunc[T]{
		FuncName: "HostObject:" + host.ID(),
		Fn: func(_ expr.Context, obj T) (bool, error) {
			return obj.ID() == host.ID(), nil
		},
	}
}

// linkedObjectID reads host's linkAttr (e.g. "enchanted_object",
// "equipped_object") and returns the id of the object it refers to.
func linkedObjectID(ctx expr.Context, host attributeSource, linkAttr string) (string, error) {
	linked, err := hostAttr(ctx, host, linkAttr)
	if err != nil {
		return "", err
	}
	target, ok := linked.(attributeSource)
	if !ok || target == nil {
		return "", nil
	}
	return target.ID(), nil
}

// EnchantedByHostPredicate grounds create_object_enchanted_by_host_
// predicate: matches the single object referenced by host's
// enchanted_object attribute ("Enchanted permanent ...").
func EnchantedByHostPredicate[T attributeSource](host attributeSource) selection.Predicate[T] {
	return selection.PredicateFunc[T]{
		FuncName: "EnchantedByHost:" + host.ID(),
		Fn: func(ctx expr.Context, obj T) (bool, error) {
			linkedID, err := linkedObjectID(ctx, host, "enchanted_object")
			if err != nil {
				return false, err
			}
			return linkedID != "" && obj.ID() == linkedID, nil
		},
	}
}

// EquippedByHostPredicate matches the object referenced by host's
// equipped_object attribute ("Equipped creature ...").
func EquippedByHostPredicate[T attributeSource](host attributeSource) selection.Predicate[T] {
	return selection.PredicateFunc[T]{
		FuncName: "EquippedByHost:" + host.ID(),
		Fn: func(ctx expr.Context, obj T) (bool, error) {
			linkedID, err := linkedObjectID(ctx, host, "equipped_object")
			if err != nil {
				return false, err
			}
			return linkedID != "" && obj.ID() == linkedID, nil
		},
	}
}

// ObjectTypeMember builds the selection.MemberOf predicate over the
// derived object_types attribute (e.g. "permanent") for the given object
// type string, without introducing a dedicated predicate type. Printed
// card types such as "artifact" or "creature" live in card_types and are
// matched with CardTypeMember.
func ObjectTypeMember[T attributeSource](objectType string) selection.Predicate[T] {
	return &selection.MemberOf[T]{Attr: "object_types", Member: expr.NewConst(objectType)}
}

// CardTypeMember builds the selection.MemberOf predicate over the
// card_types attribute, for "noncreature artifact" / "nonaura
// enchantment" style filters phrased against printed card type rather
// than the derived object_types set.
func CardTypeMember[T attributeSource](cardType string) selection.Predicate[T] {
	return &selection.MemberOf[T]{Attr: "card_types", Member: expr.NewConst(cardType)}
}

// NotCardTypeMember negates CardTypeMember, for "noncreature" /
// "non-Aura" style exclusions.
func NotCardTypeMember[T attributeSource](cardType string) selection.Predicate[T] {
	return selection.NotMemberOf[T]("card_types", expr.NewConst(cardType))
}

// YouPlayerPredicate grounds create_you_player_predicate: against the
// player collection, matches the single player who controls host ("you
// gain shroud" targeting the controlling player object).
func YouPlayerPredicate(host attributeSource) selection.Predicate[*Player] {
	return selection.PredicateFunc[*Player]{
		FuncName: "YouPlayer:" + host.ID(),
		Fn: func(ctx expr.Context, p *Player) (bool, error) {
			controllerID, err := hostAttr(ctx, host, "controller")
			if err != nil {
				return false, err
			}
			id, ok := controllerID.(string)
			return ok && id == p.ID(), nil
		},
	}
}
