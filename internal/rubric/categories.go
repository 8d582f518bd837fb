package rubric

import "github.com/ppiankov/ideajudge/internal/model"

// fourNewWeights is shared by the 新工科/新医科/新农科/新文科 panels
var fourNewWeights = Weights{
	model.DimInnovation: 30,
	model.DimEducation:  30,
	model.DimBusiness:   15,
	model.DimTeam:       15,
	model.DimSocial:     10,
}

var frontierWeights = Weights{
	model.DimInnovation: 30,
	model.DimEducation:  20,
	model.DimBusiness:   25,
	model.DimTeam:       15,
	model.DimSocial:     10,
}

// Eng is the 新工科 panel
func Eng() Policy {
	return &policy{
		name:  "eng",
		label: "新工科",
		categories: []Category{
			{"ENG_AI_SOFTWARE", "新工科：通用/垂直AI大模型、基础软件与算法创新"},
			{"ENG_EDGE_IOT", "新工科：边缘计算、云边协同、物联网安全与嵌入式开发"},
			{"ENG_CHIP_SEMI", "新工科：半导体、集成电路、类脑芯片与新型存储"},
			{"ENG_DATA_NETWORK", "新工科：大数据治理、区块链、5G/6G通讯与网络空间安全"},
			{"ENG_INDUSTRIAL_DIGIT", "新工科：工业互联网、数字孪生与智慧工厂系统"},
			{"ENG_ROBOT_AI", "新工科：具身智能、协作机器人、特种装备与无人系统"},
			{"ENG_LOW_SPACE", "新工科：低空经济、商业航天、无人机与空天信息技术"},
			{"ENG_MARINE_DEEP", "新工科：深海探测、极地工程、海洋装备与水下机器人"},
			{"ENG_PRECISION_MFG", "新工科：高精尖制造、激光技术、数控机床与增材制造"},
			{"ENG_ENERGY_TECH", "新工科：氢能/锂电储能、超导技术、光伏与核能应用"},
			{"ENG_NEW_MATERIAL", "新工科：高性能复合材料、生物材料、纳米/超材料"},
			{"ENV_GREEN_CARBON", "新工科：碳中和、污水/大气治理、绿色制造与循环经济"},
		},
		weights: fourNewWeights,
		focus: []string{
			"重点关注技术护城河，评估核心技术是否触及物理/工程极限。",
			"研判量产可行性与工程化落地路径。",
			"审视知识产权布局是否足以支撑产业化。",
		},
		shape: structured{},
	}
}

// Med is the 新医科 panel
func Med() Policy {
	return &policy{
		name:  "med",
		label: "新医科",
		categories: []Category{
			{"MED_DRUG_BIO", "新医科：生物制药、靶向药物、疫苗研发与合成生物学"},
			{"MED_DEVICE_ROBOT", "新医科：精密手术机器人、高端影像、体外诊断(IVD)与辅具"},
			{"MED_DIGITAL_HEALTH", "新医科：智慧医疗系统、远程诊断、互联网医院与康养平台"},
			{"MED_TCM_MODERN", "新医科：中医药现代化、民族医药创新与数字化针灸"},
			{"MED_PRECISION_GENE", "新医科：基因编辑、细胞治疗、精准医疗与早期筛查"},
		},
		weights: fourNewWeights,
		focus: []string{
			"重点关注临床评价路径与临床证据的获取方案。",
			"识别伦理风险并给出合规应对。",
			"评估医疗器械注册证(NMPA)获取的可行性与周期。",
		},
		shape: structured{},
	}
}

// Agri is the 新农科 panel
func Agri() Policy {
	return &policy{
		name:  "agri",
		label: "新农科",
		categories: []Category{
			{"AGRI_BIO_SEED", "新农科：生物育种、分子模块设计、种业安全与现代种植"},
			{"AGRI_SMART_EQUIP", "新农科：智慧农业、农用无人机、现代农机与工厂化农业"},
			{"AGRI_FOOD_SECURITY", "新农科：食品科学、功能性营养、保鲜技术与冷链物流"},
			{"AGRI_ECO_RURAL", "新农科：乡村振兴服务、生态修复、农药减量与绿色畜牧"},
		},
		weights: fourNewWeights,
		focus: []string{
			"重点关注土地普惠性，技术能否惠及小农户。",
			"守住粮食安全红线。",
			"评估乡村振兴场景下的可持续经营能力。",
		},
		shape: structured{},
	}
}

// Arts is the 新文科 panel
func Arts() Policy {
	return &policy{
		name:  "arts",
		label: "新文科",
		categories: []Category{
			{"ARTS_DIGITAL_CULTURE", "新文科：文化数字化、非遗活化、博物馆交互与元宇宙"},
			{"ARTS_GOVERN_SOCIETY", "新文科：数智社会治理、智慧社区、应急管理与法治政府"},
			{"ARTS_CREATIVE_BRAND", "新文科：数字创意、视觉传达、品牌出海与新媒体营销"},
			{"ARTS_FIN_EDU_TECH", "新文科：金融科技(FinTech)、现代教育技术与数智办公"},
			{"ARTS_SOCIAL_SERVICE", "新文科：适老化改造、普惠金融、公益慈善与社会创新"},
		},
		weights: fourNewWeights,
		focus: []string{
			"避免纯文化展示，需强化“文化+科技”、“管理+数智”的落地闭环。",
			"评估项目的社会治理价值与可复制性。",
		},
		shape: structured{},
	}
}

// Frontier is the earlier frontier-technology panel with the flat response layout
func Frontier() Policy {
	return &policy{
		name:  "frontier",
		label: "前沿科技",
		categories: []Category{
			{"AI_NATIVE", "前沿科技：AI原生应用与智能体"},
			{"LOW_ALTITUDE", "前沿科技：低空经济与飞行器"},
			{"QUANTUM", "前沿科技：量子计算、量子通信与量子精密测量"},
			{"BIO_MANUFACTURING", "前沿科技：生物制造与合成生物"},
			{"COMMERCIAL_SPACE", "前沿科技：商业航天与卫星互联网"},
			{"HUMANOID", "前沿科技：人形机器人与具身智能"},
		},
		weights: frontierWeights,
		focus: []string{
			"重点关注技术成熟度(TRL)与产业化窗口期。",
			"识别前沿技术的真实落地场景，避免概念堆砌。",
		},
		shape: flat{},
	}
}

// Builtin returns every built-in policy in display order
func Builtin() []Policy {
	return []Policy{Eng(), Med(), Agri(), Arts(), Frontier()}
}
