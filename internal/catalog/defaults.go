package catalog

// DefaultProducts is the built-in shelf assortment used when no catalog file
// or database is configured. ID 0 is the detector's hand class and is never
// sellable.
func DefaultProducts() []ProductInfo {
	return []ProductInfo{
		{ID: 0, Name: "hand", Category: CategoryNonProduct, Weight: 0, Price: 0},

		{ID: 1, Name: "pulmuone_spring_water_500", Category: CategoryBeverage, Weight: 520, Price: 1200},
		{ID: 2, Name: "samdasoo_500", Category: CategoryBeverage, Weight: 520, Price: 1000},
		{ID: 3, Name: "evian_500", Category: CategoryBeverage, Weight: 530, Price: 2500},
		{ID: 4, Name: "coca_cola_350", Category: CategoryBeverage, Weight: 380, Price: 1800},
		{ID: 5, Name: "sprite_350", Category: CategoryBeverage, Weight: 380, Price: 1800},
		{ID: 6, Name: "fanta_orange_350", Category: CategoryBeverage, Weight: 385, Price: 1800},
		{ID: 7, Name: "pocari_sweat_500", Category: CategoryBeverage, Weight: 540, Price: 2000},
		{ID: 8, Name: "gatorade_600", Category: CategoryBeverage, Weight: 640, Price: 2500},
		{ID: 9, Name: "vita500", Category: CategoryBeverage, Weight: 130, Price: 1200},
		{ID: 10, Name: "hot6", Category: CategoryBeverage, Weight: 260, Price: 1500},

		{ID: 11, Name: "pepero_original", Category: CategorySnack, Weight: 69, Price: 1500},
		{ID: 12, Name: "pepero_almond", Category: CategorySnack, Weight: 72, Price: 1700},
		{ID: 13, Name: "choco_pie", Category: CategorySnack, Weight: 39, Price: 800},
		{ID: 14, Name: "orion_pie", Category: CategorySnack, Weight: 35, Price: 700},
		{ID: 15, Name: "honey_butter_chip", Category: CategorySnack, Weight: 60, Price: 2000},
		{ID: 16, Name: "potato_chip_original", Category: CategorySnack, Weight: 65, Price: 1800},
		{ID: 17, Name: "shrimp_chip", Category: CategorySnack, Weight: 90, Price: 1500},
		{ID: 18, Name: "onion_ring", Category: CategorySnack, Weight: 84, Price: 1600},
		{ID: 19, Name: "cheese_ball", Category: CategorySnack, Weight: 70, Price: 1400},
		{ID: 20, Name: "pringles_original", Category: CategorySnack, Weight: 53, Price: 2500},

		{ID: 21, Name: "snickers", Category: CategoryCandy, Weight: 52, Price: 1500},
		{ID: 22, Name: "twix", Category: CategoryCandy, Weight: 50, Price: 1500},
		{ID: 23, Name: "kitkat", Category: CategoryCandy, Weight: 45, Price: 1200},
		{ID: 24, Name: "m_and_m", Category: CategoryCandy, Weight: 45, Price: 2000},
		{ID: 25, Name: "ferrero_rocher", Category: CategoryCandy, Weight: 37, Price: 2500},

		{ID: 26, Name: "chickenmayo_rice", Category: CategoryFood, Weight: 365, Price: 3500},
		{ID: 27, Name: "tuna_rice", Category: CategoryFood, Weight: 350, Price: 3200},
		{ID: 28, Name: "spam_rice", Category: CategoryFood, Weight: 380, Price: 3800},
		{ID: 29, Name: "egg_sandwich", Category: CategoryFood, Weight: 170, Price: 2800},
		{ID: 30, Name: "ham_sandwich", Category: CategoryFood, Weight: 180, Price: 3200},
		{ID: 31, Name: "tuna_sandwich", Category: CategoryFood, Weight: 175, Price: 3500},
		{ID: 32, Name: "cup_noodle_small", Category: CategoryFood, Weight: 65, Price: 1200},
		{ID: 33, Name: "cup_noodle_big", Category: CategoryFood, Weight: 110, Price: 1800},
		{ID: 34, Name: "instant_rice", Category: CategoryFood, Weight: 210, Price: 2000},
		{ID: 35, Name: "kimbap", Category: CategoryFood, Weight: 250, Price: 2500},

		{ID: 36, Name: "seoul_milk_200", Category: CategoryDairy, Weight: 210, Price: 1200},
		{ID: 37, Name: "banana_milk", Category: CategoryDairy, Weight: 245, Price: 1500},
		{ID: 38, Name: "strawberry_milk", Category: CategoryDairy, Weight: 245, Price: 1500},
		{ID: 39, Name: "chocolate_milk", Category: CategoryDairy, Weight: 250, Price: 1500},
		{ID: 40, Name: "yogurt_plain", Category: CategoryDairy, Weight: 85, Price: 1000},
		{ID: 41, Name: "yogurt_strawberry", Category: CategoryDairy, Weight: 90, Price: 1200},
		{ID: 42, Name: "cheese_slice_pack", Category: CategoryDairy, Weight: 200, Price: 3500},

		{ID: 43, Name: "protein_bar", Category: CategoryHealth, Weight: 50, Price: 2500},
		{ID: 44, Name: "energy_bar", Category: CategoryHealth, Weight: 45, Price: 2000},
		{ID: 45, Name: "granola_bar", Category: CategoryHealth, Weight: 40, Price: 1800},
		{ID: 46, Name: "vitamin_c", Category: CategoryHealth, Weight: 35, Price: 1500},
		{ID: 47, Name: "multivitamin", Category: CategoryHealth, Weight: 30, Price: 2000},

		{ID: 48, Name: "gum_pack", Category: CategoryEtc, Weight: 25, Price: 1000},
		{ID: 49, Name: "mint_candy", Category: CategoryEtc, Weight: 15, Price: 800},
		{ID: 50, Name: "wet_tissue", Category: CategoryEtc, Weight: 50, Price: 1000},
	}
}
