package catalog

import "github.com/cleanfeed/sifter/internal/model"

// DefaultPatterns returns the built-in PPL indicator table. Weights express
// the prior strength of each phrase as sponsorship evidence; the vocabulary
// covers Korean and English disclosure conventions.
func DefaultPatterns() []model.Pattern {
	return []model.Pattern{
		// Direct disclosure - strongest evidence
		{Text: "협찬", Weight: 0.95, Category: model.CategoryDirectDisclosure, Description: "direct sponsorship notice"},
		{Text: "광고", Weight: 0.95, Category: model.CategoryDirectDisclosure, Description: "direct advertisement marker"},
		{Text: "제공받은", Weight: 0.90, Category: model.CategoryDirectDisclosure, Description: "product provision notice"},
		{Text: "제공받았습니다", Weight: 0.90, Category: model.CategoryDirectDisclosure, Description: "product provision notice, polite form"},
		{Text: "sponsored", Weight: 0.95, Category: model.CategoryDirectDisclosure, Description: "English sponsorship marker"},
		{Text: "AD", Weight: 0.95, Category: model.CategoryDirectDisclosure, Description: "advertisement abbreviation"},
		{Text: "advertisement", Weight: 0.90, Category: model.CategoryDirectDisclosure, Description: "English advertisement marker"},
		{Text: "paid promotion", Weight: 0.85, Category: model.CategoryDirectDisclosure, Description: "paid promotion phrase"},
		{Text: "유료광고", Weight: 0.95, Category: model.CategoryDirectDisclosure, Description: "paid advertisement marker"},

		// Hashtag disclosure
		{Text: "#광고", Weight: 0.95, Category: model.CategoryHashtagDisclosure, Description: "advertisement hashtag"},
		{Text: "#협찬", Weight: 0.95, Category: model.CategoryHashtagDisclosure, Description: "sponsorship hashtag"},
		{Text: "#제공", Weight: 0.85, Category: model.CategoryHashtagDisclosure, Description: "product provision hashtag"},
		{Text: "#AD", Weight: 0.95, Category: model.CategoryHashtagDisclosure, Description: "AD hashtag"},
		{Text: "#sponsored", Weight: 0.95, Category: model.CategoryHashtagDisclosure, Description: "sponsored hashtag"},
		{Text: "#PR", Weight: 0.80, Category: model.CategoryHashtagDisclosure, Description: "PR hashtag"},

		// Description-text disclosure
		{Text: "업체로부터 제품을 제공받아", Weight: 0.90, Category: model.CategoryDescriptionDisclosure, Description: "product provided by vendor"},
		{Text: "협찬을 받아", Weight: 0.90, Category: model.CategoryDescriptionDisclosure, Description: "made with sponsorship"},
		{Text: "협찬을 받고 작성한", Weight: 0.90, Category: model.CategoryDescriptionDisclosure, Description: "written under sponsorship"},
		{Text: "광고가 포함된", Weight: 0.85, Category: model.CategoryDescriptionDisclosure, Description: "contains advertising notice"},
		{Text: "브랜드로부터 제공받은", Weight: 0.85, Category: model.CategoryDescriptionDisclosure, Description: "provided by the brand"},
		{Text: "마케팅 목적으로 제작된", Weight: 0.80, Category: model.CategoryDescriptionDisclosure, Description: "produced for marketing purposes"},

		// Promotional language - implicit
		{Text: "특가", Weight: 0.70, Category: model.CategoryPromotionalLanguage, Description: "special price mention"},
		{Text: "할인", Weight: 0.65, Category: model.CategoryPromotionalLanguage, Description: "discount mention"},
		{Text: "이벤트", Weight: 0.60, Category: model.CategoryPromotionalLanguage, Description: "event mention"},
		{Text: "프로모션", Weight: 0.70, Category: model.CategoryPromotionalLanguage, Description: "promotion mention"},
		{Text: "쿠폰", Weight: 0.75, Category: model.CategoryPromotionalLanguage, Description: "coupon mention"},
		{Text: "상품정보", Weight: 0.60, Category: model.CategoryPromotionalLanguage, Description: "product info pointer"},
		{Text: "한정판매", Weight: 0.65, Category: model.CategoryPromotionalLanguage, Description: "limited sale"},
		{Text: "출시기념", Weight: 0.70, Category: model.CategoryPromotionalLanguage, Description: "launch celebration"},

		// Commercial context
		{Text: "브랜드 소개", Weight: 0.75, Category: model.CategoryCommercialContext, Description: "brand introduction"},
		{Text: "신제품", Weight: 0.80, Category: model.CategoryCommercialContext, Description: "new product launch"},
		{Text: "런칭", Weight: 0.75, Category: model.CategoryCommercialContext, Description: "product launch"},
		{Text: "캠페인", Weight: 0.70, Category: model.CategoryCommercialContext, Description: "marketing campaign"},
		{Text: "컬래버레이션", Weight: 0.75, Category: model.CategoryCommercialContext, Description: "brand collaboration"},
		{Text: "콜라보", Weight: 0.75, Category: model.CategoryCommercialContext, Description: "brand collab"},
		{Text: "앰버서더", Weight: 0.85, Category: model.CategoryCommercialContext, Description: "brand ambassador"},
		{Text: "모델", Weight: 0.60, Category: model.CategoryCommercialContext, Description: "brand model"},

		// Purchase guidance
		{Text: "구매링크", Weight: 0.85, Category: model.CategoryPurchaseGuidance, Description: "direct purchase link"},
		{Text: "링크 아래", Weight: 0.80, Category: model.CategoryPurchaseGuidance, Description: "purchase link pointer"},
		{Text: "구매하실 분들", Weight: 0.80, Category: model.CategoryPurchaseGuidance, Description: "purchase prompt"},
		{Text: "아래", Weight: 0.85, Category: model.CategoryPurchaseGuidance, Description: "link pointer"},
		{Text: "설명란", Weight: 0.70, Category: model.CategoryPurchaseGuidance, Description: "description-box pointer"},
		{Text: "더보기", Weight: 0.70, Category: model.CategoryPurchaseGuidance, Description: "see-more pointer"},
		{Text: "관심있으신", Weight: 0.65, Category: model.CategoryPurchaseGuidance, Description: "interest prompt"},
		{Text: "댓글", Weight: 0.65, Category: model.CategoryPurchaseGuidance, Description: "comment info pointer"},
		{Text: "궁금하신", Weight: 0.60, Category: model.CategoryPurchaseGuidance, Description: "inquiry prompt"},
		{Text: "DM", Weight: 0.60, Category: model.CategoryPurchaseGuidance, Description: "DM inquiry prompt"},
		{Text: "참고", Weight: 0.60, Category: model.CategoryPurchaseGuidance, Description: "reference pointer"},

		// Timing pressure
		{Text: "마감임박", Weight: 0.80, Category: model.CategoryTimingPressure, Description: "deadline pressure"},
		{Text: "오늘만", Weight: 0.75, Category: model.CategoryTimingPressure, Description: "today-only pressure"},
		{Text: "선착순", Weight: 0.75, Category: model.CategoryTimingPressure, Description: "first-come pressure"},
		{Text: "지금 바로", Weight: 0.70, Category: model.CategoryTimingPressure, Description: "act-now prompt"},
		{Text: "수량 한정", Weight: 0.70, Category: model.CategoryTimingPressure, Description: "limited quantity"},
	}
}
