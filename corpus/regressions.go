package corpus

import "xdao.co/cryptodiff/operation"

// regressions reproduce published defects. Identifiers are given by name
// and resolved against the registry the generator is handed.
var regressions = []caseSpec{
	{
		name: "gcrypt-invmod",
		ref:  "https://lists.gnupg.org/pipermail/gcrypt-devel/2022-April/005303.html",
		kind: operation.KindBignumCalc,
		desc: operation.Description{
			"modifier": "",
			"calcOp":   "InvMod(A,B)",
			"bn1":      "18446744073709551615",
			"bn2":      "340282366762482138434845932244680310781",
			"bn3":      "",
			"bn4":      "",
		},
	},
	{
		name: "openssl-cve-2019-1551",
		ref:  "https://www.openssl.org/news/secadv/20191206.txt",
		kind: operation.KindBignumCalc,
		desc: operation.Description{
			"modifier": "",
			"calcOp":   "ExpMod(A,B,C)",
			"bn1": "400000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000060000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"00000000000176079519223",
			"bn2": "800000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"0000000000000000000000000000000000000000",
			"bn3": "134078079268452372098073764561319176260439585561511786748331635432942763305151376634211347754827" +
				"98690129946803802212663956180562088664022929883876655300863",
			"bn4": "",
		},
	},
	{
		name: "botan-2424",
		ref:  "https://github.com/randombit/botan/issues/2424",
		kind: operation.KindECDSAVerify,
		desc: operation.Description{
			"modifier":   "",
			"curveType":  "secp256k1",
			"cleartext":  "1111111111111111111111111111111111111111111111111111111111111111",
			"digestType": "NULL",
			"signature": map[string]any{
				"pub":       []any{"55066263022277343669578718895168534326250603453777594175500187360389116729240", "83121579216557378445487899878180864668798711284981320763518679672151497189239"},
				"signature": []any{"110618813224107091100351766566588261013518646361399424304146461958647130377927", "56528019055117870811188539769759161932852696818058491284544029456598522370972"},
			},
		},
	},
	{
		name: "bearssl-p256-privtopub",
		ref:  "https://www.bearssl.org/gitweb/?p=BearSSL;a=commit;h=b2ec2030e40acf5e9e4cd0f2669aacb27eadb540",
		kind: operation.KindECCPrivateToPublic,
		desc: operation.Description{
			"modifier":  "",
			"priv":      "11649127978725198960843318989712164899186848538742274787971553381990000200000",
			"curveType": "secp256r1",
		},
	},
	{
		name: "nettle-secp192r1-verify",
		ref:  "https://marc.info/?l=nettle-bugs&m=161588207403125&w=2",
		kind: operation.KindECDSAVerify,
		desc: operation.Description{
			"modifier":   "",
			"curveType":  "secp192r1",
			"cleartext":  "000000000000000000000000000000000000000000000000000000000000000000000000000000",
			"digestType": "NULL",
			"signature": map[string]any{
				"pub":       []any{"500377950244489656127360156902133231713860962293873817256", "2887465644744983053966665723554787622533253210326340420"},
				"signature": []any{"3657300785385429136677758856499483929823439200989267186171", "5795269996949228740681694823296899082100201373875130732539"},
			},
		},
	},
	{
		name: "num-bigint-ghsa-v935-pqmr-g8v9/1",
		ref:  "https://github.com/rust-num/num-bigint/security/advisories/GHSA-v935-pqmr-g8v9",
		kind: operation.KindBignumCalc,
		desc: operation.Description{
			"modifier": "",
			"calcOp":   "Mul(A,B)",
			"bn1": "175190840953713153712553850017089845628483424715722660300375750621127170300874066027198362997262" +
				"139458931981781474326078803713257382737552576835261408700100597380211815431541114445997314521106" +
				"503032195500645401474763630240486000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000050000000000000000000000000000000000000010000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000511000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000001751908409537" +
				"131537125538500170898456284834247157226603003757506211271703008740660271983629972621396341228227" +
				"351874797913575632744725831810602611255073228525628534187330887040124501192217331153272099233956" +
				"725044376910312737020656680069996301594147078406781615876583737719432582906544556762450370613549" +
				"164726899249173822456795123966859031273760415067306066670755962263857300100000000000000000000000" +
				"000000000000000000000000000000000000500000000000000000000000000000000000000100003277500000000000" +
				"000000000000000000000000655500000000000000000000000000000000005110000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000005110000000000000000000000000000" +
				"000000000000033496050000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
				"0000000000000000000000000000000000000000000000",
			"bn2": "279767918920957688223247107928297146666750326469582807192299564107155378711412883663387359835167" +
				"408541252445074732528750604393203760987779126997200627940578347728297257400259247089821743910829" +
				"187042506601692989829859556844182139185133815352018912493700056586310875758568894379449254825017" +
				"192074928185424001445160584763830852881419311413717493461787303585550769213235328837893515154532" +
				"456722412708476110063559031824643028186453171711597182152286996080077215401387041071351481726360" +
				"370125683193492359637675082705708439138857941432276109244501995828792978536719040985942428251460" +
				"716138475024874424689426740033412652766619234704838286160867685958379421554594613542698560516202" +
				"969966130914836193583583804914761313281554717217703441518881138057523291593689228685230621874706" +
				"393683008148293643391239887178057711932922296791801368990126315085906593001087652751205081669438" +
				"449583038713017863132781369042789242400917442279223472910945786920999212211101663273987211626216" +
				"995491814856574343170537551253396419993188389703159861378351312986976020731814069685565026460896" +
				"966803632409158799512079160639881640375041627463867013046793581857157341623300476148148609548535" +
				"752577035904471697334554188653084918441714772417988651043071937180376719560513845657686977193197" +
				"318906986277868584645447108091861060450608824493381156410335869836119330993778398453724572066635" +
				"347134091062839371944280451941383541076973618930188233640843707531638007219385841799787260174288" +
				"6028967223450825996866132982238787108062128981531579203425536924928393487168186764812389187591",
			"bn3": "",
			"bn4": "",
		},
	},
	{
		name: "num-bigint-ghsa-v935-pqmr-g8v9/2",
		ref:  "https://github.com/rust-num/num-bigint/security/advisories/GHSA-v935-pqmr-g8v9",
		kind: operation.KindBignumCalc,
		desc: operation.Description{
			"modifier": "",
			"calcOp":   "Mul(A,B)",
			"bn1": "690287060080976537710087592960077330090904374322000250257743323540527050687416830839257757650025" +
				"797326516832771234146635337940633821012166679149208540670799405888790717534059049434651073199971" +
				"913272894903100334272566269048519698195641639803486151832499874991582002609126367961819656301563" +
				"249040152649402613826698172170631828554680618317036611509497489645605069364384147910567386781542" +
				"784743578492751139709925507972253734622569345637749246332623204520036427909590476671721730049777" +
				"184387180900008102810140324893345058687280628672125814663544670368536746700779586643865354465060" +
				"016301305508796938570118336881045973301123887736673988815545421473648878166371529185141290946500" +
				"97764846899476825554852205351307738873855",
			"bn2": "690287060080976537710087592960077330090904374322000250257743323540527050687416830839257757650025" +
				"797326516832771234146635337940633821012166679149208540670799405888790717534059049434651073199971" +
				"913272894903100334272566269048519698195641639803486151832499874991582002609126367961819656301563" +
				"249040152649402613826698172170631828554680618317036611509497489645605069364384147910567386781542" +
				"784743578492751139709925507972253734622569345637749246332623204520036427909590476671721730049777" +
				"184387180900008102810140324893345058687280628672125814663544670368536746700779586643865354465060" +
				"016301305508796938570118336881045973301123887736673988815545421473648878166371529185141290946500" +
				"97764846899476825554852205351307738873855",
			"bn3": "",
			"bn4": "",
		},
	},
	{
		name: "go-cve-2020-28362",
		ref:  "https://github.com/golang/go/issues/42552",
		kind: operation.KindBignumCalc,
		desc: operation.Description{
			"modifier": "",
			"calcOp":   "Div(A,B)",
			"bn1": "358584519483312945644489792915316013339044213602710057025378519713093403775367136811193552946833" +
				"977964852518126323811094171558766538930477294102352202754014047364502074282733465406304420098300" +
				"938956566223447604825044653165378660808654220934140317386797436605647547035344251783388681175309" +
				"878896312462399123638673023164006870682291688559849045866459882379320156562785922188068315473675" +
				"422884081282545585551825614880625446167289218701394762051695330313268350329794670812948253161408" +
				"451292594274399739014207334417010637468928423812230184276456744239174379249933197618878593848583" +
				"094470518068468475726232163738251342097310131905930680849272841028310664578746119939063442765402" +
				"231456939008950869322974938151228522534139372358492400367498961062887558755690449895613873241293" +
				"596533751769714345671099601805085450175971895168494532362861762934814864428824254852204206617143" +
				"500938338181117207880503616725299211127546512818115025162590876618636137113052173104416742502737" +
				"370368561596863399736140020047330555882318083963391058248166526086306611168546208630336470221867" +
				"761274649438920040568240355586672364041369629766988259672325376650178190401608867559277691476127" +
				"260253790633028606347115233006648630520749773904572753178889043306410896719481572103343151257984" +
				"559179126182952864654671975108029265900253271279260727300581558603833473001393454378263888146034" +
				"670369648665677332387305233636144636820609542552307297712575326282483088219364797533195447769892" +
				"283665149403243048734442559060379708810893453009404035139630200988165163293459771147369671507353" +
				"091036915501580344363703556650202292247902549540396387945135516860171484083732331686535327533515" +
				"291973835390950002074616588957299230950697588081418292226086963178976935282629084335080571441914" +
				"455808103825957199068010958996277462617927335718501285237045919758104196981999105518858251126327" +
				"564147190086701668929297090121373535663609818681419563075950912216202332424883068817853033496499" +
				"555250307990801867571088564005161664673851694229256378115638648711967528318552466672802110330008" +
				"059638067066747110516351292340621738471081023538752239974534759950969642034030534106863317181567" +
				"644921956697308425095871487425542259145473032249204703959073782781409685501205242565733194139385" +
				"668548679372590671175855746161005301195684973904275031298698413622895419134796753780584005400540" +
				"701887874140721503247382731199473767225405047398400665892466961323377904735289306649375970695412" +
				"037370248078233160600982879621588651277122758167886610061589913754157729001992275704104029729771" +
				"707872079834966270939433642806206561342677692311109263950694638483652945640442464312262166385467" +
				"894441744878177991237719191592195607608010968428224996795182545652439560872863894777412299579640" +
				"840660951585744739521620917567421859910971325810482806189011139581218197219166242252251855118549" +
				"850046046453651591153201074401132761041294786520068923893446820885001484255943824367916739172500" +
				"995608700812841219561395770641417061810303000385143703697529057598332943524416497066285977920802" +
				"005198594416397501518528498652367107112055866928178996003742123437324727163112165590276736110279" +
				"024667065966850377340712167466237741461559888221967513797884827358475696380933541024632966766947" +
				"587059450560759115100093576469861745467102088463860983605675390140416",
			"bn2": "311699379057945744711274837589304218588316739810147850004400895103841481354616655419360478168948" +
				"390511374508611696141353836454910182653527874952898453943415082523214658066299201510439221957770" +
				"928190569160068430461099463936251423247163577713709648377569237428232232141634735862560119871983" +
				"819287276328469332709554858520903065298912576766594575166625166678124922820844671006501689236536" +
				"403600977182239215610422001992559821029632342769365753608776084194281637207925150756342363797732" +
				"247808488085695630991894194630777199818910238097793481470781845681018937934789122646900794399734" +
				"578615550382005989043497993960083756820185848032150383036194894670533124196570303566855965442540" +
				"626987297023103541170437737274695180952860862930094547675495695580593862335157504307375250087155" +
				"899123437974290992896458140981947908594405136887356337383700910184683333998448056097675280905396" +
				"177067143433897839838856020464544770372419998447577094555879384534731145712852982663252433276465" +
				"115110405619586209783470298947519522869907259107664363995627155724979882512487992308124033610489" +
				"323998231444942639991935510615672948099217027708542842949427386243686104069444684852156869784283" +
				"782199852558676023303508826086496048162027226780917805268637865188274241871086794152049711326585" +
				"873603844203067499535024021519293290804088848450009480810936004237778711385344419349962418402229" +
				"784426821193747260638853814281170953147314997484842597794680717374938068620561315571146051293322" +
				"333435455513403993746067803188666990808106197227802073941142732848187705890123777600612485887654" +
				"148937177940473297173669259910004505304416454168453320653866695291034302481790596090447361912130" +
				"385581305689822985171891704112482136739041471895990706272139542308150474478221101762666343396545" +
				"180473666994627950352309605353601339392663102738654345728007581503098160236542535634380700312862" +
				"786160571979772342924479428362187009918036378701887491755120510359778728821234418255595309775074" +
				"461905421593953936511865618923364880843942025699477574028381841626340094254666649845264819531734" +
				"493971393560885313117492955280344352219341846283758850473024315399006888045304683386179589540233" +
				"1014869639709627204788524884524271080365359104",
			"bn3": "",
			"bn4": "",
		},
	},
	{
		name: "bitcoin-block-125552",
		ref:  "https://en.bitcoin.it/wiki/Block_hashing_algorithm",
		kind: operation.KindDigest,
		desc: operation.Description{
			"modifier":   "",
			"cleartext":  "b9d751533593ac10cdfb7b8e03cad8babc67d8eaeac0a3699b82857dacac9390",
			"digestType": "SHA256",
		},
	},
}
