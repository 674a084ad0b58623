package catalog

var defaultShips = []Ship{
	// 1st rates
	{Name: "Santisima", Rate: FirstRate, BR: 290},
	{Name: "L'Ocean", Rate: FirstRate, BR: 275},
	{Name: "Victory", Rate: FirstRate, BR: 250},
	// 2nd rates
	{Name: "Christian", Rate: SecondRate, BR: 220},
	{Name: "Redoutable", Rate: SecondRate, BR: 200},
	{Name: "Implacable", Rate: SecondRate, BR: 195},
	// 3rd rates
	{Name: "Bellona", Rate: ThirdRate, BR: 180},
	{Name: "Wappen von Hamburg III", Rate: ThirdRate, BR: 175},
	{Name: "Wasa", Rate: ThirdRate, BR: 170},
	{Name: "Bucentaure", Rate: ThirdRate, BR: 185},
	{Name: "Pavel", Rate: ThirdRate, BR: 180},
	// 4th rates
	{Name: "Constitution", Rate: FourthRate, BR: 140},
	{Name: "Agamemnon", Rate: FourthRate, BR: 130},
	{Name: "Indefatigable", Rate: FourthRate, BR: 120},
	{Name: "Trincomalee", Rate: FourthRate, BR: 110},
	// 5th rates
	{Name: "Endymion", Rate: FifthRate, BR: 100},
	{Name: "Essex", Rate: FifthRate, BR: 90},
	{Name: "Surprise", Rate: FifthRate, BR: 70},
	{Name: "Belle Poule", Rate: FifthRate, BR: 95},
	{Name: "Hercules", Rate: FifthRate, BR: 80},
	// 6th rates
	{Name: "Renommee", Rate: SixthRate, BR: 60},
	{Name: "Niagara", Rate: SixthRate, BR: 55},
	{Name: "Mercury", Rate: SixthRate, BR: 45},
	{Name: "Cerberus", Rate: SixthRate, BR: 50},
	// 7th rates
	{Name: "Snow", Rate: SeventhRate, BR: 35},
	{Name: "Prince de Neufchatel", Rate: SeventhRate, BR: 40},
	{Name: "Brig", Rate: SeventhRate, BR: 30},
	{Name: "Privateer", Rate: SeventhRate, BR: 25},
	// unrated
	{Name: "Lynx", Rate: Unrated, BR: 20},
	{Name: "Cutter", Rate: Unrated, BR: 15},
	{Name: "Yacht", Rate: Unrated, BR: 10},
}

var defaultNations = []Nation{
	"Great Britain",
	"France",
	"Spain",
	"Dutch Republic",
	"Sweden",
	"Denmark-Norway",
	"Prussia",
	"Russia",
	"Commonwealth of Poland",
	"United States",
	"Pirates",
}
