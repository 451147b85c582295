package ride

import "github.com/talgya/park-peeps/internal/economy"

// ShopItem is anything a stall sells or a guest carries. Items below ShopItemExtraBase
// live in a guest's standard inventory bitset; the rest in the extra bitset.
type ShopItem uint8

const (
	ItemBalloon ShopItem = iota
	ItemToy
	ItemMap
	ItemPhoto
	ItemUmbrella
	ItemDrink
	ItemBurger
	ItemChips
	ItemIceCream
	ItemCandyfloss
	ItemEmptyCan
	ItemRubbish
	ItemEmptyBurgerBox
	ItemPizza
	ItemVoucher
	ItemPopcorn
	ItemHotDog
	ItemTentacle
	ItemHat
	ItemToffeeApple
	ItemTShirt
	ItemDoughnut
	ItemCoffee
	ItemEmptyCup
	ItemChicken
	ItemLemonade
	ItemEmptyBox
	ItemEmptyBottle
)

// ShopItemExtraBase is the first item kept in the extra inventory bitset.
const ShopItemExtraBase ShopItem = 32

const (
	ItemPhoto2 ShopItem = ShopItemExtraBase + iota
	ItemPhoto3
	ItemPhoto4
	ItemPretzel
	ItemChocolate
	ItemIcedTea
	ItemFunnelCake
	ItemSunglasses
	ItemBeefNoodles
	ItemFriedRiceNoodles
	ItemWontonSoup
	ItemMeatballSoup
	ItemFruitJuice
	ItemSoybeanMilk
	ItemSuJongkwa
	ItemSubSandwich
	ItemCookie
	ItemEmptyBowlRed
	ItemEmptyDrinkCarton
	ItemEmptyJuiceCup
	ItemRoastSausage
	ItemEmptyBowlBlue
	itemEnd
)

// ItemNone marks an empty item slot.
const ItemNone ShopItem = 255

// ItemKind groups items by how guests use them.
type ItemKind uint8

const (
	KindOther ItemKind = iota
	KindFood
	KindDrink
	KindSouvenir
	KindContainer
	KindPhoto
)

// ItemInfo describes one shop item.
type ItemInfo struct {
	Name      string
	Kind      ItemKind
	Cost      economy.Money // Default selling price
	Container ShopItem      // Left over once consumed
	HotValue  bool          // Sells better in hot weather
	ColdValue bool          // Sells better in cold weather
}

var itemTable = map[ShopItem]ItemInfo{
	ItemBalloon:          {Name: "Balloon", Kind: KindSouvenir, Cost: 9, Container: ItemNone},
	ItemToy:              {Name: "Cuddly Toy", Kind: KindSouvenir, Cost: 25, Container: ItemNone},
	ItemMap:              {Name: "Park Map", Kind: KindSouvenir, Cost: 6, Container: ItemNone},
	ItemPhoto:            {Name: "On-Ride Photo", Kind: KindPhoto, Cost: 20, Container: ItemNone},
	ItemUmbrella:         {Name: "Umbrella", Kind: KindSouvenir, Cost: 30, Container: ItemNone},
	ItemDrink:            {Name: "Drink", Kind: KindDrink, Cost: 12, Container: ItemEmptyCan, HotValue: true},
	ItemBurger:           {Name: "Burger", Kind: KindFood, Cost: 19, Container: ItemEmptyBurgerBox},
	ItemChips:            {Name: "Chips", Kind: KindFood, Cost: 15, Container: ItemRubbish},
	ItemIceCream:         {Name: "Ice Cream", Kind: KindFood, Cost: 10, Container: ItemNone, HotValue: true},
	ItemCandyfloss:       {Name: "Candyfloss", Kind: KindFood, Cost: 10, Container: ItemNone},
	ItemEmptyCan:         {Name: "Empty Can", Kind: KindContainer, Container: ItemNone},
	ItemRubbish:          {Name: "Rubbish", Kind: KindContainer, Container: ItemNone},
	ItemEmptyBurgerBox:   {Name: "Empty Burger Box", Kind: KindContainer, Container: ItemNone},
	ItemPizza:            {Name: "Pizza", Kind: KindFood, Cost: 16, Container: ItemRubbish},
	ItemVoucher:          {Name: "Voucher", Kind: KindOther, Container: ItemNone},
	ItemPopcorn:          {Name: "Popcorn", Kind: KindFood, Cost: 12, Container: ItemEmptyBox},
	ItemHotDog:           {Name: "Hot Dog", Kind: KindFood, Cost: 14, Container: ItemRubbish},
	ItemTentacle:         {Name: "Tentacle", Kind: KindFood, Cost: 15, Container: ItemRubbish},
	ItemHat:              {Name: "Hat", Kind: KindSouvenir, Cost: 15, Container: ItemNone, HotValue: true},
	ItemToffeeApple:      {Name: "Toffee Apple", Kind: KindFood, Cost: 10, Container: ItemRubbish},
	ItemTShirt:           {Name: "T-Shirt", Kind: KindSouvenir, Cost: 25, Container: ItemNone},
	ItemDoughnut:         {Name: "Doughnut", Kind: KindFood, Cost: 8, Container: ItemRubbish},
	ItemCoffee:           {Name: "Coffee", Kind: KindDrink, Cost: 12, Container: ItemEmptyCup, ColdValue: true},
	ItemEmptyCup:         {Name: "Empty Cup", Kind: KindContainer, Container: ItemNone},
	ItemChicken:          {Name: "Fried Chicken", Kind: KindFood, Cost: 16, Container: ItemEmptyBox},
	ItemLemonade:         {Name: "Lemonade", Kind: KindDrink, Cost: 12, Container: ItemEmptyBottle, HotValue: true},
	ItemEmptyBox:         {Name: "Empty Box", Kind: KindContainer, Container: ItemNone},
	ItemEmptyBottle:      {Name: "Empty Bottle", Kind: KindContainer, Container: ItemNone},
	ItemPhoto2:           {Name: "On-Ride Photo", Kind: KindPhoto, Cost: 20, Container: ItemNone},
	ItemPhoto3:           {Name: "On-Ride Photo", Kind: KindPhoto, Cost: 20, Container: ItemNone},
	ItemPhoto4:           {Name: "On-Ride Photo", Kind: KindPhoto, Cost: 20, Container: ItemNone},
	ItemPretzel:          {Name: "Pretzel", Kind: KindFood, Cost: 11, Container: ItemNone},
	ItemChocolate:        {Name: "Hot Chocolate", Kind: KindDrink, Cost: 13, Container: ItemEmptyCup, ColdValue: true},
	ItemIcedTea:          {Name: "Iced Tea", Kind: KindDrink, Cost: 11, Container: ItemEmptyCup, HotValue: true},
	ItemFunnelCake:       {Name: "Funnel Cake", Kind: KindFood, Cost: 12, Container: ItemNone},
	ItemSunglasses:       {Name: "Sunglasses", Kind: KindSouvenir, Cost: 15, Container: ItemNone, HotValue: true},
	ItemBeefNoodles:      {Name: "Beef Noodles", Kind: KindFood, Cost: 15, Container: ItemEmptyBowlRed},
	ItemFriedRiceNoodles: {Name: "Fried Rice Noodles", Kind: KindFood, Cost: 15, Container: ItemEmptyBowlRed},
	ItemWontonSoup:       {Name: "Wonton Soup", Kind: KindFood, Cost: 14, Container: ItemEmptyBowlBlue, ColdValue: true},
	ItemMeatballSoup:     {Name: "Meatball Soup", Kind: KindFood, Cost: 14, Container: ItemEmptyBowlBlue, ColdValue: true},
	ItemFruitJuice:       {Name: "Fruit Juice", Kind: KindDrink, Cost: 11, Container: ItemEmptyJuiceCup, HotValue: true},
	ItemSoybeanMilk:      {Name: "Soybean Milk", Kind: KindDrink, Cost: 10, Container: ItemEmptyDrinkCarton},
	ItemSuJongkwa:        {Name: "Sujeonggwa", Kind: KindDrink, Cost: 11, Container: ItemEmptyDrinkCarton},
	ItemSubSandwich:      {Name: "Sub Sandwich", Kind: KindFood, Cost: 15, Container: ItemNone},
	ItemCookie:           {Name: "Cookie", Kind: KindFood, Cost: 7, Container: ItemNone},
	ItemEmptyBowlRed:     {Name: "Empty Bowl", Kind: KindContainer, Container: ItemNone},
	ItemEmptyDrinkCarton: {Name: "Empty Drink Carton", Kind: KindContainer, Container: ItemNone},
	ItemEmptyJuiceCup:    {Name: "Empty Juice Cup", Kind: KindContainer, Container: ItemNone},
	ItemRoastSausage:     {Name: "Roast Sausage", Kind: KindFood, Cost: 15, Container: ItemNone},
	ItemEmptyBowlBlue:    {Name: "Empty Bowl", Kind: KindContainer, Container: ItemNone},
}

// Info returns the catalogue entry for an item.
func (i ShopItem) Info() ItemInfo {
	if info, ok := itemTable[i]; ok {
		return info
	}
	return ItemInfo{Name: "Unknown", Container: ItemNone}
}

// Valid reports whether the item exists in the catalogue.
func (i ShopItem) Valid() bool {
	_, ok := itemTable[i]
	return ok
}

// IsExtra reports whether the item is tracked in the extra inventory bitset.
func (i ShopItem) IsExtra() bool {
	return i >= ShopItemExtraBase
}

// Flag returns the item's bit within its inventory bitset.
func (i ShopItem) Flag() uint32 {
	if i.IsExtra() {
		return 1 << (i - ShopItemExtraBase)
	}
	return 1 << i
}

func (i ShopItem) IsFood() bool { return i.Info().Kind == KindFood }
func (i ShopItem) IsDrink() bool { return i.Info().Kind == KindDrink }
func (i ShopItem) IsSouvenir() bool { return i.Info().Kind == KindSouvenir }
func (i ShopItem) IsContainer() bool { return i.Info().Kind == KindContainer }
func (i ShopItem) IsPhoto() bool { return i.Info().Kind == KindPhoto }

func (i ShopItem) String() string {
	return i.Info().Name
}

// AllItems returns every catalogue item in index order.
func AllItems() []ShopItem {
	out := make([]ShopItem, 0, len(itemTable))
	for i := ShopItem(0); i < itemEnd; i++ {
		if i.Valid() {
			out = append(out, i)
		}
	}
	return out
}
