// Package category maps merchant strings to a fixed transaction taxonomy.
// Classification is best-effort keyword matching, not language understanding.
package category

import (
	"regexp"
	"strings"

	"github.com/MANOJ-80/0xRupex/internal/models"
)

// Category names. These match the backend taxonomy and must not be renamed.
const (
	FoodDining     = "Food & Dining"
	Groceries      = "Groceries"
	Transport      = "Transport"
	Shopping       = "Shopping"
	Entertainment  = "Entertainment"
	BillsUtilities = "Bills & Utilities"
	Health         = "Health"
	PersonalCare   = "Personal Care"
	Education      = "Education"
	Travel         = "Travel"
	Transfers      = "Transfers"
	Other          = "Other"
)

// rule pairs a category with its keyword pattern. The rules are an ordered
// list and the first match wins: a merchant can match several categories, so
// iteration order is part of the classification contract.
type rule struct {
	name    string
	pattern *regexp.Regexp
}

var rules = []rule{
	{FoodDining, regexp.MustCompile(`(?i)SWIGGY|ZOMATO|DOMINOS|PIZZA|MCDONALDS|KFC|BURGER|STARBUCKS|CAFE|` +
		`RESTAURANT|FOOD|DINE|DINING|BIRYANI|CHAAYOS|SUBWAY|DUNKIN|` +
		`BARBEQUE|BBQ|HALDIRAM|SARAVANA|BHAVAN|MESS|CANTEEN|EATERY|` +
		`BASKIN|ICE.?CREAM|NATURALS|AMUL|CHAAT|BAKERY|SWEET|MITHAI`)},
	{Groceries, regexp.MustCompile(`(?i)BIGBASKET|BLINKIT|ZEPTO|DUNZO|GROFERS|JIOMART|DMART|RELIANCE.?FRESH|` +
		`MORE|SPAR|STAR.?BAZAAR|NATURE.?BASKET|EASYDAY|SUPER.?MARKET|` +
		`SPENCER|KIRANA|GROCERY|PROVISION|VEGETABLES|FRUITS|MILK|DAIRY|` +
		`RATNADEEP|METRO.?CASH|COSTCO|LULU`)},
	{Transport, regexp.MustCompile(`(?i)UBER|OLA|RAPIDO|METRO|IRCTC|REDBUS|ABSBUS|MAKEMYTRIP|` +
		`PETROL|DIESEL|FUEL|HP.?PETROL|BHARAT.?PETROL|INDIAN.?OIL|` +
		`FASTAG|TOLL|PARKING|GARAGE|AUTO|TAXI|CAB|` +
		`GOIBIBO|CLEARTRIP|YATRA|BUS|TRAIN|RAILWAY`)},
	{Shopping, regexp.MustCompile(`(?i)AMAZON|FLIPKART|MYNTRA|AJIO|NYKAA|MEESHO|SNAPDEAL|SHOPCLUES|` +
		`TATA.?CLQ|FIRST.?CRY|CROMA|RELIANCE.?DIGITAL|VIJAY.?SALES|` +
		`DECATHLON|PUMA|NIKE|ADIDAS|ZARA|H.?M|UNIQLO|LIFESTYLE|` +
		`WESTSIDE|PANTALOONS|MAX|TRENDS|SHOPPERS.?STOP|CENTRAL|` +
		`LENSKART|TITAN|TANISHQ|KALYAN|MALABAR|JEWEL|WATCH`)},
	{Entertainment, regexp.MustCompile(`(?i)NETFLIX|HOTSTAR|PRIME.?VIDEO|SPOTIFY|GAANA|WYNK|JIOSAVN|` +
		`BOOKMYSHOW|PVR|INOX|CINEPOLIS|MOVIE|CINEMA|THEATRE|` +
		`PLAYSTATION|XBOX|STEAM|GOOGLE.?PLAY|APP.?STORE|` +
		`DREAM11|MPL|GAMES|GAMING|CONCERT|EVENT|TICKET`)},
	{BillsUtilities, regexp.MustCompile(`(?i)ELECTRICITY|BESCOM|CESC|TATA.?POWER|ADANI.?POWER|RELIANCE.?ENERGY|` +
		`JIO.?FIBER|AIRTEL|VODAFONE|BSNL|ACT.?FIBERNET|HATHWAY|TATA.?SKY|` +
		`GAS|INDANE|BHARAT.?GAS|HP.?GAS|WATER|SEWAGE|` +
		`BILL.?PAYMENT|RECHARGE|DTH|BROADBAND|INTERNET|POSTPAID|PREPAID`)},
	{Health, regexp.MustCompile(`(?i)APOLLO|MEDPLUS|NETMEDS|PHARMEASY|1MG|TATA.?1MG|` +
		`HOSPITAL|CLINIC|DOCTOR|DIAGNOSTIC|LAB|PATHOLOGY|` +
		`PHARMACY|MEDICAL|MEDICINE|HEALTH|WELLNESS|` +
		`GYM|FITNESS|CULT|GOLD.?GYM|YOGA|INSURANCE|` +
		`PRACTO|LYBRATE|MFINE|THYROCARE`)},
	{PersonalCare, regexp.MustCompile(`(?i)SALON|SPA|PARLOUR|BEAUTY|BARBER|HAIRCUT|` +
		`LAKME|NATURALS|JAWED.?HABIB|LOOKS|BODYCRAFT|` +
		`URBAN.?COMPANY|URBAN.?CLAP|GROOMING`)},
	{Education, regexp.MustCompile(`(?i)SCHOOL|COLLEGE|UNIVERSITY|TUITION|COACHING|` +
		`BYJU|UNACADEMY|VEDANTU|COURSERA|UDEMY|` +
		`BOOKS|STATIONERY|LIBRARY|EDUCATION|ACADEMIC|` +
		`UPGRAD|SIMPLILEARN|GREAT.?LEARNING`)},
	{Travel, regexp.MustCompile(`(?i)HOTEL|OYO|TREEBO|FABHOTEL|TAJ|OBEROI|ITC|MARRIOTT|` +
		`AIRBNB|HOSTEL|RESORT|LODGE|BOOKING.?COM|` +
		`INDIGO|SPICEJET|AIRINDIA|VISTARA|AKASA|` +
		`FLIGHT|AIRLINE|AIRPORT|VISA|PASSPORT`)},
	{Transfers, regexp.MustCompile(`(?i)IMPS|NEFT|RTGS|UPI|TRANSFER|SENT.?TO|PAID.?TO`)},
}

// metadata is the fixed icon/color table keyed by category name.
var metadata = map[string]models.Category{
	FoodDining:     {Name: FoodDining, Icon: "restaurant", Color: "#EF4444"},
	Groceries:      {Name: Groceries, Icon: "local_grocery_store", Color: "#84CC16"},
	Transport:      {Name: Transport, Icon: "directions_car", Color: "#F59E0B"},
	Shopping:       {Name: Shopping, Icon: "shopping_bag", Color: "#8B5CF6"},
	Entertainment:  {Name: Entertainment, Icon: "movie", Color: "#EC4899"},
	BillsUtilities: {Name: BillsUtilities, Icon: "receipt", Color: "#3B82F6"},
	Health:         {Name: Health, Icon: "local_hospital", Color: "#10B981"},
	PersonalCare:   {Name: PersonalCare, Icon: "spa", Color: "#F472B6"},
	Education:      {Name: Education, Icon: "school", Color: "#6366F1"},
	Travel:         {Name: Travel, Icon: "flight", Color: "#14B8A6"},
	Transfers:      {Name: Transfers, Icon: "swap_horiz", Color: "#64748B"},
	Other:          {Name: Other, Icon: "category", Color: "#6B7280"},
}

var (
	nonAlnumRe     = regexp.MustCompile(`[^A-Z0-9]`)
	personalNameRe = regexp.MustCompile(`^[A-Z]+(?:\s+[A-Z]+){1,2}$`)
)

// Classify maps a merchant string to its category with icon and color
// metadata. Unknown merchants that look like personal names become
// Transfers; everything else falls through to Other.
func Classify(merchant string) models.Category {
	return metadata[detect(merchant)]
}

func detect(merchant string) string {
	if strings.TrimSpace(merchant) == "" {
		return Other
	}

	normalized := nonAlnumRe.ReplaceAllString(strings.ToUpper(merchant), " ")

	for _, r := range rules {
		if r.pattern.MatchString(normalized) {
			return r.name
		}
	}

	// UPI payments to individuals: 2-3 alphabetic tokens of bounded length.
	trimmed := strings.TrimSpace(merchant)
	if len(trimmed) <= 30 && personalNameRe.MatchString(strings.ToUpper(trimmed)) {
		return Transfers
	}

	return Other
}

// Lookup returns the icon/color metadata for a category name. Unknown names
// get the Other metadata.
func Lookup(name string) models.Category {
	if meta, ok := metadata[name]; ok {
		return meta
	}
	return metadata[Other]
}
